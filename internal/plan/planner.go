package plan

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dao-generator/internal/analyze"
	"dao-generator/internal/binder"
	"dao-generator/internal/boundexpr"
	"dao-generator/internal/common"
	"dao-generator/internal/convert"
	"dao-generator/internal/diagnostic"
	"dao-generator/internal/ir"
	"dao-generator/internal/match"
	"dao-generator/internal/query"
	"dao-generator/internal/scope"
	"dao-generator/primitive"
)

// Config holds the naming configuration of generated methods.
type Config struct {
	// Receiver is the receiver name of generated methods.
	Receiver string
	// DataSourceField is the receiver field holding the *dbrt.DB.
	DataSourceField string
	// Context is the name of the context.Context parameter.
	Context string
	// StrictParams reports unused parameters as errors instead of warnings.
	StrictParams bool
	// MaxSuggestions is the maximum number of suggestions per diagnostic.
	MaxSuggestions int
}

// DefaultConfig returns the default planning configuration.
func DefaultConfig() Config {
	return Config{
		Receiver:        "d",
		DataSourceField: "db",
		Context:         "ctx",
		MaxSuggestions:  3,
	}
}

// Planner plans data-access methods.
type Planner struct {
	resolver *convert.Resolver
	config   Config
}

// NewPlanner creates a new Planner. The resolver's registry also answers
// parameter bindings.
func NewPlanner(resolver *convert.Resolver, config Config) *Planner {
	return &Planner{resolver: resolver, config: config}
}

// Plan plans every method of every DAO.
func (p *Planner) Plan(daos []DAO) *GenerationPlan {
	plan := &GenerationPlan{}

	for i := range daos {
		dao := &daos[i]
		dp := &DAOPlan{Name: dao.Name, Methods: make([]*MethodPlan, len(dao.Methods))}

		order, cyclic := delegateOrder(dao)

		for _, j := range cyclic {
			m := &dao.Methods[j]
			plan.Diagnostics.AddError(diagnostic.CodeCycle,
				fmt.Sprintf("delegate chain of %s does not reach a query", m.Name),
				dao.Name+"."+m.Name, m.Delegate)
			dp.Methods[j] = &MethodPlan{DAO: dao.Name, Method: m, Kind: KindTransaction}
		}

		for _, j := range order {
			mp, diags := p.PlanMethod(dao, &dao.Methods[j])
			plan.Diagnostics.Merge(diags)
			dp.Methods[j] = mp
		}

		plan.DAOs = append(plan.DAOs, dp)
	}

	Logger().Info("planning finished",
		zap.Int("daos", len(plan.DAOs)),
		zap.Int("errors", len(plan.Diagnostics.Errors)),
		zap.Int("warnings", len(plan.Diagnostics.Warnings)),
	)

	return plan
}

// PlanMethod plans one method of dao. The returned plan has a nil Func when
// the diagnostics hold errors.
func (p *Planner) PlanMethod(dao *DAO, m *Method) (*MethodPlan, diagnostic.Diagnostics) {
	mp := &methodPlanner{
		Planner: p,
		dao:     dao,
		m:       m,
		label:   dao.Name + "." + m.Name,
		out:     &MethodPlan{DAO: dao.Name, Method: m},
	}

	mp.run()

	if mp.out.Func == nil {
		Logger().Debug("method not planned",
			zap.String("method", mp.label),
			zap.Int("errors", len(mp.diags.Errors)),
		)
	} else {
		Logger().Debug("planned method",
			zap.String("method", mp.label),
			zap.Stringer("kind", mp.out.Kind),
			zap.Int("placeholders", len(mp.out.Placeholders)),
		)
	}

	return mp.out, mp.diags
}

// methodPlanner holds the state of planning one method.
type methodPlanner struct {
	*Planner

	dao   *DAO
	m     *Method
	label string
	diags diagnostic.Diagnostics
	out   *MethodPlan

	segments []string
	binders  []binder.Binder
	values   []ir.Expr
	result   convert.ResultConverter
}

func (mp *methodPlanner) run() {
	mp.checkSignature()

	switch {
	case strings.TrimSpace(mp.m.Query) != "":
		mp.out.Kind = Classify(mp.m.Query)
		if mp.out.Kind == KindUnknown {
			mp.diags.AddError(diagnostic.CodeQuery,
				fmt.Sprintf("cannot classify statement starting with %q", leadingKeyword(mp.m.Query)),
				mp.label, "")

			return
		}

		mp.resolvePlaceholders()
		mp.resolveResult()

	case mp.m.Delegate != "":
		mp.out.Kind = KindTransaction
		mp.resolveDelegate()

	default:
		mp.diags.AddError(diagnostic.CodeQuery, "method has neither a query nor a delegate", mp.label, "")
		return
	}

	if mp.diags.HasErrors() {
		return
	}

	fn, err := mp.build()
	if err != nil {
		mp.fail(err)
		return
	}

	mp.out.Func = fn
}

// checkSignature rejects parameters that cannot coexist with the generated
// receiver and context.
func (mp *methodPlanner) checkSignature() {
	seen := make(map[string]bool, len(mp.m.Params))

	for _, p := range mp.m.Params {
		switch {
		case p.Name == mp.config.Receiver || p.Name == mp.config.Context || p.Name == ir.ErrResult:
			mp.diags.AddError(diagnostic.CodeContext,
				fmt.Sprintf("parameter %q collides with a generated name", p.Name),
				mp.label, p.Name)
		case seen[p.Name]:
			mp.diags.AddError(diagnostic.CodeContext, fmt.Sprintf("duplicate parameter %q", p.Name), mp.label, p.Name)
		case p.Type == nil || p.Type.Kind == analyze.TypeKindInvalid:
			mp.diags.AddError(diagnostic.CodeType, fmt.Sprintf("parameter %q has no resolved type", p.Name), mp.label, p.Name)
		}

		seen[p.Name] = true
	}

	if mp.m.Result != nil && mp.m.Result.Kind == analyze.TypeKindInvalid {
		mp.diags.AddError(diagnostic.CodeType, "return type does not resolve", mp.label, "")
	}
}

func (mp *methodPlanner) resolvePlaceholders() {
	segments, exprs := boundexpr.Tokenize(mp.m.Query)
	mp.segments = segments

	params := make([]boundexpr.Param, 0, len(mp.m.Params))
	for _, p := range mp.m.Params {
		params = append(params, boundexpr.Param{Name: p.Name, Type: p.Type})
	}

	used := make(map[string]bool)

	for _, expr := range exprs {
		head, _, _ := strings.Cut(expr, ".")
		used[head] = true

		t, access, err := boundexpr.ResolveExpr(expr, params)
		if err != nil {
			mp.unresolved(expr, err)
			continue
		}

		kind := primitive.DataKindAny
		if p, ok := mp.param(expr); ok {
			kind = p.Kind
		}

		b := binder.ResolveOf(mp.resolver.Registry, t, kind)
		if b == nil {
			mp.diags.AddError(diagnostic.CodeNoBinder,
				fmt.Sprintf("no parameter binder for %s (data kind %s)", t, kind),
				mp.label, ":"+expr)

			continue
		}

		if b.IsMultiple() {
			mp.diags.AddInfo(diagnostic.CodeMultiValued,
				fmt.Sprintf("expands to one placeholder per element of %s", t),
				mp.label, ":"+expr)
		}

		mp.binders = append(mp.binders, b)
		mp.values = append(mp.values, access)
		mp.out.Placeholders = append(mp.out.Placeholders, Placeholder{Expr: expr, Type: t, Multiple: b.IsMultiple()})
	}

	for _, p := range mp.m.Params {
		if used[p.Name] {
			continue
		}

		msg := fmt.Sprintf("parameter %q is not referenced by the query", p.Name)
		if mp.config.StrictParams {
			mp.diags.AddError(diagnostic.CodeUnusedParam, msg, mp.label, p.Name)
		} else {
			mp.diags.AddWarning(diagnostic.CodeUnusedParam, msg, mp.label, p.Name)
		}
	}
}

func (mp *methodPlanner) unresolved(expr string, err error) {
	var ue *boundexpr.UnresolvedError
	if !errors.As(err, &ue) {
		mp.diags.AddError(diagnostic.CodeUnresolvedExpr, err.Error(), mp.label, ":"+expr)
		return
	}

	mp.diags.AddError(diagnostic.CodeUnresolvedExpr,
		fmt.Sprintf("cannot resolve segment %q", ue.Segment),
		mp.label, ":"+expr, mp.suggest(ue.Segment, ue.Candidates)...)
}

func (mp *methodPlanner) resolveResult() {
	if !mp.m.HasResult() {
		return
	}

	switch mp.out.Kind {
	case KindUpdateDelete, KindInsert:
		if !isInteger(mp.m.Result) {
			mp.diags.AddError(diagnostic.CodeBadReturn,
				fmt.Sprintf("%s statements return an integer kind or nothing, not %s", mp.out.Kind, mp.m.Result),
				mp.label, mp.m.Result.String())
		}

	case KindQuery:
		conv, err := mp.resolver.ResolveResult(mp.m.Result)
		if err != nil {
			code := diagnostic.CodeNoConverter
			if errors.Is(err, convert.ErrCycle) {
				code = diagnostic.CodeCycle
			}

			mp.diags.AddError(code, err.Error(), mp.label, mp.m.Result.String())

			return
		}

		mp.result = conv
	}
}

func (mp *methodPlanner) resolveDelegate() {
	if mp.m.Delegate == mp.m.Name {
		mp.diags.AddError(diagnostic.CodeQuery, "method delegates to itself", mp.label, mp.m.Delegate)
		return
	}

	target, ok := mp.dao.Method(mp.m.Delegate)
	if !ok {
		names := make([]string, 0, len(mp.dao.Methods))
		for _, other := range mp.dao.Methods {
			names = append(names, other.Name)
		}

		mp.diags.AddError(diagnostic.CodeQuery, fmt.Sprintf("unknown delegate %q", mp.m.Delegate),
			mp.label, mp.m.Delegate, mp.suggest(mp.m.Delegate, names)...)

		return
	}

	if len(target.Params) != len(mp.m.Params) {
		mp.diags.AddError(diagnostic.CodeQuery,
			fmt.Sprintf("delegate %s takes %d parameters, not %d", target.Name, len(target.Params), len(mp.m.Params)),
			mp.label, target.Name)

		return
	}

	for i, p := range mp.m.Params {
		if !p.Type.Equal(target.Params[i].Type) {
			mp.diags.AddError(diagnostic.CodeQuery,
				fmt.Sprintf("delegate %s parameter %d is %s, not %s", target.Name, i+1, target.Params[i].Type, p.Type),
				mp.label, p.Name)
		}
	}

	if mp.m.HasResult() != target.HasResult() || mp.m.HasResult() && !mp.m.Result.Equal(target.Result) {
		mp.diags.AddError(diagnostic.CodeBadReturn,
			fmt.Sprintf("delegate %s returns %s", target.Name, resultString(target)),
			mp.label, resultString(mp.m))
	}
}

func (mp *methodPlanner) build() (*ir.Func, error) {
	s := scope.New()
	s.Reserve(mp.config.Receiver, mp.config.Context, ir.ErrResult)

	params := []ir.Param{{Name: mp.config.Context, Type: ir.ContextType()}}
	for _, p := range mp.m.Params {
		s.Reserve(p.Name)
		params = append(params, ir.Param{Name: p.Name, Type: p.Type})
	}

	q := &scope.QueryContext{
		DataSource:  ir.Select{X: ir.Id(mp.config.Receiver), Field: mp.config.DataSourceField},
		Context:     ir.Id(mp.config.Context),
		NeedsReturn: mp.m.HasResult(),
	}

	var result *analyze.TypeInfo
	if mp.m.HasResult() {
		result = mp.m.Result
	}

	var exec query.ExecutionBinder

	switch mp.out.Kind {
	case KindTransaction:
		args := []ir.Expr{q.Context}
		for _, p := range mp.m.Params {
			args = append(args, ir.Id(p.Name))
		}

		exec = &query.TransactionWrapper{Inner: ir.Try(ir.Id(mp.config.Receiver), mp.m.Delegate, args...), Result: result}

	default:
		stmt, err := mp.acquire(s, q.DataSource)
		if err != nil {
			return nil, err
		}

		q.Statement = stmt
		q.Releasable = true
		q.InTransaction = mp.m.Transaction

		switch mp.out.Kind {
		case KindQuery:
			exec = &query.InstantQuery{Converter: mp.result}
		case KindInsert:
			exec = &query.UpdateDelete{Insert: true, Result: result}
		default:
			exec = &query.UpdateDelete{Result: result}
		}
	}

	if err := exec.Emit(s, q); err != nil {
		return nil, err
	}

	return &ir.Func{
		Name:     mp.m.Name,
		Receiver: ir.Param{Name: mp.config.Receiver, Type: analyze.PointerTo(analyze.Struct(analyze.TypeID{Name: mp.dao.Name}))},
		Params:   params,
		Result:   result,
		Body:     s.Body(),
	}, nil
}

// acquire emits the statement text, the statement acquisition and the
// parameter binds. It returns the statement local.
func (mp *methodPlanner) acquire(s *scope.Scope, db ir.Expr) (string, error) {
	counts := make([]ir.Expr, len(mp.binders))
	expand := false

	for i, b := range mp.binders {
		if !b.IsMultiple() {
			counts[i] = ir.Int(1)
			continue
		}

		size, err := b.ArgCount(s, mp.values[i])
		if err != nil {
			return "", err
		}

		counts[i] = ir.Id(size)
		expand = true
	}

	var text ir.Expr = ir.Str(strings.Join(mp.segments, "?"))
	if expand {
		segments := make([]ir.Expr, len(mp.segments))
		for i, seg := range mp.segments {
			segments[i] = ir.Str(seg)
		}

		sql := s.TmpVar("_sql")
		args := append([]ir.Expr{ir.SliceLit{Elem: analyze.Basic("string"), Elems: segments}}, counts...)
		s.Emit(ir.Declare{Name: sql, Type: analyze.Basic("string"), Value: ir.Runtime(ir.ExpandQuery, args...)})
		text = ir.Id(sql)
	}

	stmt := s.TmpVar("_stmt")
	s.Emit(ir.Declare{Name: stmt, Type: ir.StatementType(), Value: ir.Method(db, ir.Acquire, text)})

	if common.IsEmpty(mp.binders) {
		return stmt, nil
	}

	index := s.TmpVar("_argIndex")
	s.Emit(ir.Declare{Name: index, Type: analyze.Basic("int"), Value: ir.Int(1)})

	for i, b := range mp.binders {
		b.Bind(s, ir.Id(stmt), index, mp.values[i])
	}

	return stmt, nil
}

// fail records a body construction error under the matching code.
func (mp *methodPlanner) fail(err error) {
	code := diagnostic.CodeQuery

	switch {
	case errors.Is(err, scope.ErrAlreadySet), errors.Is(err, scope.ErrNotSet):
		code = diagnostic.CodeContext
	case errors.Is(err, query.ErrNoConverter), errors.Is(err, convert.ErrNotPrepared):
		code = diagnostic.CodeNoConverter
	}

	mp.diags.AddError(code, err.Error(), mp.label, "")
}

// param returns the parameter expr names when expr is a bare parameter.
func (mp *methodPlanner) param(expr string) (*Param, bool) {
	for i := range mp.m.Params {
		if mp.m.Params[i].Name == expr {
			return &mp.m.Params[i], true
		}
	}

	return nil, false
}

func (mp *methodPlanner) suggest(name string, candidates []string) []string {
	var res []string

	for _, c := range match.Rank(name, candidates) {
		if c.Score < match.MinSuggestScore || len(res) == mp.config.MaxSuggestions {
			break
		}

		res = append(res, c.Name)
	}

	return res
}

var integerNames = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
}

// isInteger reports whether t is an integer kind, directly or through a
// named type.
func isInteger(t *analyze.TypeInfo) bool {
	if t == nil {
		return false
	}

	switch t.Kind {
	case analyze.TypeKindBasic:
		return integerNames[t.ID.Name]
	case analyze.TypeKindAlias, analyze.TypeKindEnum:
		return isInteger(t.Underlying)
	default:
		return false
	}
}

func resultString(m *Method) string {
	if !m.HasResult() {
		return "nothing"
	}

	return m.Result.String()
}
