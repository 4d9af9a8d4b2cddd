package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"dao-generator/internal/analyze"
	"dao-generator/internal/convert"
	"dao-generator/internal/daofile"
	"dao-generator/internal/diagnostic"
	"dao-generator/internal/gen"
	"dao-generator/internal/plan"
	"dao-generator/internal/registry"
)

// errDiagnostics is returned when the declarations or the plan carry
// error diagnostics.
var errDiagnostics = errors.New("generation stopped on errors")

// options are the command-line settings of one run.
type options struct {
	ConfigPath  string
	OutputDir   string
	PackagePath string
	Strict      bool
	NoComments  bool
}

// pipeline is the outcome of one run; later stages are nil when an
// earlier stage failed.
type pipeline struct {
	File         *daofile.File
	Declarations *daofile.Declarations
	Plan         *plan.GenerationPlan
	Files        []gen.GeneratedFile
	OutputDir    string
	Diagnostics  diagnostic.Diagnostics
}

// build loads the declaration file, resolves it against the loaded
// packages and plans every method. When render is set, it also renders
// the DAO files.
func build(opts options, render bool, log *zap.Logger) (*pipeline, error) {
	p := &pipeline{}

	f, err := daofile.LoadFile(opts.ConfigPath)
	if err != nil {
		return p, err
	}

	p.File = f
	p.Diagnostics.Merge(*daofile.Validate(f))

	if p.Diagnostics.HasErrors() {
		return p, errDiagnostics
	}

	log.Debug("loading packages", zap.Strings("patterns", f.Load))

	graph := analyze.NewTypeGraph()
	if len(f.Load) > 0 {
		graph, err = analyze.NewAnalyzer().LoadPackages(f.Load...)
		if err != nil {
			return p, err
		}
	}

	resolver := convert.NewResolver(registry.Default())

	decl, res := daofile.Resolve(f, graph, resolver)
	p.Declarations = decl
	p.Diagnostics.Merge(*res)

	if p.Diagnostics.HasErrors() {
		return p, errDiagnostics
	}

	planConfig := plan.DefaultConfig()
	planConfig.StrictParams = opts.Strict

	p.Plan = plan.NewPlanner(resolver, planConfig).Plan(decl.DAOs)
	p.Diagnostics.Merge(p.Plan.Diagnostics)

	if p.Diagnostics.HasErrors() {
		return p, errDiagnostics
	}

	p.OutputDir = opts.OutputDir
	if p.OutputDir == "" {
		p.OutputDir = filepath.Join(filepath.Dir(opts.ConfigPath), decl.Output)
	}

	if !render {
		return p, nil
	}

	genConfig := gen.DefaultGeneratorConfig()
	genConfig.PackageName = decl.Package
	genConfig.PackagePath = opts.PackagePath
	genConfig.OutputDir = p.OutputDir
	genConfig.DataSourceField = planConfig.DataSourceField
	genConfig.GenerateComments = !opts.NoComments

	p.Files, err = gen.NewGenerator(genConfig).Generate(p.Plan)
	if err != nil {
		return p, fmt.Errorf("rendering: %w", err)
	}

	return p, nil
}
