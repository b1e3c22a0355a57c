package main

import (
	"fmt"
	"os"

	"vecl/internal/complexpath"
	"vecl/internal/config"
	"vecl/internal/diag"
	"vecl/internal/instr"
	"vecl/internal/parser"
	"vecl/internal/pipeline"
	"vecl/internal/resolver"
	"vecl/internal/stdcommands"
	"vecl/internal/suite"
)

// sourceText resolves the single source argument (a file path) or
// falls back to --execute's inline text.
func sourceText(cfg *config.Config, args []string) (string, error) {
	if cfg.Execute != "" {
		return cfg.Execute, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("no source given: pass a file or --execute")
	}
	r := resolver.New(cfg.FileSearchPath)
	src, _, err := r.Resolve(args[0])
	if err != nil {
		return "", err
	}
	return src.Text, nil
}

// buildCompileSuite assembles the std command set into a fresh
// CompileSuite, honouring --no-std.
func buildCompileSuite(cfg *config.Config) *suite.CompileSuite {
	cs := suite.NewCompileSuite()
	if !cfg.NoStd {
		_ = cs.AddSet(stdcommands.BuildCompileSet())
	}
	return cs
}

// runPipeline parses source and drives it through every component C
// pass: the fixed front half, the configured pass-code string, and
// the fixed tail.
func runPipeline(cfg *config.Config, args []string) ([]instr.Instruction, *suite.CompileSuite, error) {
	text, err := sourceText(cfg, args)
	if err != nil {
		return nil, nil, err
	}

	alloc := pipeline.NewRegAlloc(0)
	par := parser.New(text, alloc)
	instrs, err := par.Parse()
	if err != nil {
		return nil, nil, err
	}

	cs := buildCompileSuite(cfg)
	hooks := stdcommands.Hooks{Suite: cs}
	log := diag.New(cfg.Verbose)

	p := pipeline.New(complexpath.NoDefs{}, alloc)
	p.Instructions = instrs
	p.Verbosity = cfg.Verbose

	if err := p.RunFixedFrontHalf(hooks); err != nil {
		return nil, nil, err
	}
	log.V(2, "front half: %d instructions", len(p.Instructions))

	if err := p.RunConfigured(cfg.OptSeq, hooks); err != nil {
		return nil, nil, err
	}
	log.V(2, "configured passes %q: %d instructions", cfg.OptSeq, len(p.Instructions))

	if err := p.RunTail(hooks); err != nil {
		return nil, nil, err
	}
	log.V(2, "tail: %d instructions", len(p.Instructions))

	return p.Instructions, cs, nil
}

func writeFile(path string, b []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
