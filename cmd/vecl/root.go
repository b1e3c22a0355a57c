package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vecl/internal/config"
)

const version = "0.1.0"

func rootCmd() *cobra.Command {
	cfg := &config.Config{}
	var defines []string

	root := &cobra.Command{
		Use:   "vecl",
		Short: "vecl — a vectorised DSL compiler and register-machine interpreter",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Define = map[string]string{}
			for _, kv := range defines {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("malformed --define %q, want key=value", kv)
				}
				cfg.Define[k] = v
			}
			if cfg.OptSeq == "" {
				cfg.OptSeq = config.DefaultOptSeq(cfg.OptLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&cfg.GenerateDebug, "generate-debug", false, "accepted; no command reads it (no debug symbols are emitted)")
	root.PersistentFlags().BoolVar(&cfg.NoStd, "no-std", false, "do not register the std command set")
	root.PersistentFlags().CountVarP(&cfg.Verbose, "verbose", "v", "increase diagnostic verbosity (repeatable)")
	root.PersistentFlags().IntVar(&cfg.OptLevel, "opt-level", 3, "optimisation level 0-6, selects the default pass-code string")
	root.PersistentFlags().StringVar(&cfg.OptSeq, "opt-seq", "", "explicit pass-code string, overrides --opt-level")
	root.PersistentFlags().BoolVar(&cfg.DebugRun, "debug-run", false, "serve a websocket debug sink while running")
	root.PersistentFlags().StringVar(&cfg.RootDir, "root-dir", "", "accepted; no command reads it")
	root.PersistentFlags().StringSliceVar(&cfg.FileSearchPath, "file-search-path", nil, "search: scheme resolution path (repeatable)")
	root.PersistentFlags().StringSliceVar(&cfg.Lib, "lib", nil, "accepted (repeatable); no command reads it")
	root.PersistentFlags().StringVar(&cfg.Output, "output", "", "output artifact path")
	root.PersistentFlags().BoolVar(&cfg.Profile, "profile", false, "accepted; no command reads it")
	root.PersistentFlags().StringVar(&cfg.Execute, "execute", "", "inline source text, instead of a source file argument")
	root.PersistentFlags().StringSliceVar(&defines, "define", nil, "key=value pair, checked for form and stored; no command reads it (repeatable)")
	root.PersistentFlags().BoolVar(&cfg.UnitTest, "unit-test", false, "accepted; no command reads it")

	root.AddCommand(compileCmd(cfg))
	root.AddCommand(runCmd(cfg))
	root.AddCommand(generateDynamicDataCmd(cfg))
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the vecl version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("vecl " + version)
			return nil
		},
	}
}
