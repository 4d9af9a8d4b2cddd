// Package main provides the CLI entrypoint for dao-generator.
//
// dao-generator reads a YAML declaration file naming DAOs, their methods
// and SQL statements, loads the Go packages holding the parameter and
// result types, and generates one Go file per DAO with the data-access
// method bodies.
//
// Commands:
//
//	gen    plan and write the generated files (default)
//	check  plan and report diagnostics without writing
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"dao-generator/internal/diagnostic"
	"dao-generator/internal/gen"
	"dao-generator/internal/plan"
)

const usage = `usage: dao-generator [gen|check] [flags]

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := "gen"
	if len(args) > 0 && (args[0] == "gen" || args[0] == "check") {
		cmd, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet("dao-generator", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		opts    options
		verbose bool
		dump    bool
	)

	fs.StringVar(&opts.ConfigPath, "config", "dao.yaml", "Path to the YAML declaration file")
	fs.StringVar(&opts.OutputDir, "out", "", "Output directory (default: the file's output, relative to the file)")
	fs.StringVar(&opts.PackagePath, "pkg-path", "", "Import path of the generated package")
	fs.BoolVar(&opts.Strict, "strict", false, "Report unused method parameters as errors")
	fs.BoolVar(&opts.NoComments, "no-comments", false, "Omit doc comments from generated code")
	fs.BoolVar(&verbose, "v", false, "Verbose development logging")
	fs.BoolVar(&dump, "dump", false, "Dump the planned method bodies")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 2
	}

	log, err := newLogger(verbose)
	if err != nil {
		fmt.Fprintln(stderr, "logger:", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	plan.SetLogger(log.Named("plan"))
	gen.SetLogger(log.Named("gen"))

	p, err := build(opts, cmd == "gen", log)
	printDiagnostics(stderr, p.Diagnostics)

	if dump && p.Plan != nil {
		dumpPlan(stdout, p.Plan)
	}

	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	if cmd == "check" {
		fmt.Fprintf(stdout, "%s: ok\n", opts.ConfigPath)
		return 0
	}

	written, err := gen.WriteFiles(p.Files, p.OutputDir)
	for _, name := range written {
		fmt.Fprintf(stdout, "wrote %s\n", name)
	}

	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	if len(written) == 0 {
		fmt.Fprintln(stdout, "up to date")
	}

	return 0
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func printDiagnostics(w io.Writer, d diagnostic.Diagnostics) {
	for _, group := range [][]diagnostic.Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range group {
			fmt.Fprintf(w, "%s: %s\n", diag.Severity, diag)
		}
	}
}

func dumpPlan(w io.Writer, gp *plan.GenerationPlan) {
	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
		MaxDepth:                8,
	}

	for _, d := range gp.DAOs {
		for _, m := range d.Methods {
			fmt.Fprintf(w, "=== %s.%s (%s) ===\n", d.Name, m.Method.Name, m.Kind)
			cfg.Fdump(w, m.Func)
		}
	}
}
