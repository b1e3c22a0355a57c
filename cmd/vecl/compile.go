package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vecl/internal/config"
	"vecl/internal/stdcommands"
	"vecl/internal/suite"
)

func compileCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "compile [source]",
		Short: "compile source to a serialised artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			instrs, cs, err := runPipeline(cfg, args)
			if err != nil {
				return err
			}

			compiled, err := stdcommands.CompileAll(cs, instrs)
			if err != nil {
				return err
			}
			prog, err := suite.EncodeProgram(compiled, stdcommands.OpcodeOf(cs))
			if err != nil {
				return err
			}

			bases := map[string]suite.SetID{}
			for _, s := range cs.Sets() {
				bases[s.Name] = s.ID()
			}
			artifact := suite.NewArtifact(bases, map[string]suite.ProgramCmd{"main": prog})
			artifact.WithBases(cs)

			b, err := artifact.Encode()
			if err != nil {
				return err
			}
			if err := writeFile(cfg.Output, b); err != nil {
				return err
			}
			if cfg.Output != "" {
				fmt.Printf("wrote %s (%d bytes)\n", cfg.Output, len(b))
			}
			return nil
		},
	}
}
