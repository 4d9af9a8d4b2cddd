package gen

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"
	"golang.org/x/tools/imports"

	"dao-generator/internal/common"
	"dao-generator/internal/ir"
	"dao-generator/internal/plan"
)

// Header is the first line of every generated file.
const Header = "Code generated by dao-generator. DO NOT EDIT."

// ErrPlanHasErrors is returned when asked to render a plan with error
// diagnostics.
var ErrPlanHasErrors = errors.New("generation plan has errors")

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// PackagePath is the import path of the generated package. Types of
	// that package are rendered unqualified. Optional.
	PackagePath string
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// DataSourceField is the DAO struct field holding the *dbrt.DB. It must
	// match the planner's data source field.
	DataSourceField string
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      "dao",
		OutputDir:        "./generated",
		DataSourceField:  plan.DefaultConfig().DataSourceField,
		GenerateComments: true,
	}
}

// Generator generates Go code from a generation plan.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "user_dao.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate renders one file per DAO of p.
func (g *Generator) Generate(p *plan.GenerationPlan) ([]GeneratedFile, error) {
	if p.Diagnostics.HasErrors() {
		return nil, fmt.Errorf("%w: %w", ErrPlanHasErrors, p.Diagnostics.Error())
	}

	files := make([]GeneratedFile, 0, len(p.DAOs))

	for _, d := range p.DAOs {
		file, err := g.generateDAO(d)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", d.Name, err)
		}

		Logger().Debug("rendered DAO", zap.String("dao", d.Name), zap.String("file", file.Filename))

		files = append(files, *file)
	}

	Logger().Info("generation complete", zap.Int("files", len(files)))

	return files, nil
}

func (g *Generator) newFile() *jen.File {
	if g.config.PackagePath != "" {
		return jen.NewFilePathName(g.config.PackagePath, g.config.PackageName)
	}

	return jen.NewFile(g.config.PackageName)
}

func (g *Generator) generateDAO(d *plan.DAOPlan) (*GeneratedFile, error) {
	filename := g.filename(d.Name)

	f := g.newFile()
	f.HeaderComment(Header)
	f.ImportName(ir.RuntimePkg, common.PkgAlias(ir.RuntimePkg))

	db := jen.Op("*").Qual(ir.RuntimePkg, "DB")

	if g.config.GenerateComments {
		f.Commentf("%s runs its data-access methods on a *dbrt.DB.", d.Name)
	}

	f.Type().Id(d.Name).Struct(jen.Id(g.config.DataSourceField).Add(db))
	f.Line()

	if g.config.GenerateComments {
		f.Commentf("New%s returns a %s executing statements on db.", d.Name, d.Name)
	}

	f.Func().Id("New" + d.Name).Params(jen.Id("db").Add(db)).Op("*").Id(d.Name).Block(
		jen.Return(jen.Op("&").Id(d.Name).Values(jen.Dict{jen.Id(g.config.DataSourceField): jen.Id("db")})),
	)

	for _, m := range d.Methods {
		if m.Func == nil {
			continue
		}

		w := &funcWriter{fn: m.Func, types: &typeFormatter{}}

		code, err := w.render()
		if err != nil {
			return nil, err
		}

		f.Line()

		if g.config.GenerateComments {
			f.Comment(methodComment(m))
		}

		f.Add(code)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", filename, err)
	}

	formatted, err := imports.Process(filename, buf.Bytes(), nil)
	if err != nil {
		writeUnformatted(g.config.OutputDir, filename, buf.Bytes())

		return &GeneratedFile{
			Filename: filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Filename: filename,
		Content:  formatted,
	}, nil
}

func (g *Generator) filename(dao string) string {
	return common.Snake(dao) + ".go"
}

func methodComment(m *plan.MethodPlan) string {
	name := m.Method.Name

	if m.Kind == plan.KindTransaction {
		return fmt.Sprintf("%s runs %s in a transaction.", name, m.Method.Delegate)
	}

	query := strings.Join(strings.Fields(m.Method.Query), " ")
	if m.Method.Transaction {
		return fmt.Sprintf("%s executes in a transaction: %s", name, query)
	}

	return fmt.Sprintf("%s executes: %s", name, query)
}
