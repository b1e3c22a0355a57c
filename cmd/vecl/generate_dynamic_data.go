package main

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"vecl/internal/command"
	"vecl/internal/config"
	"vecl/internal/instr"
)

// generateDynamicDataCmd samples each library call's recorded timing
// and writes a .ddd file: a minimal CBOR-encoded map[string][]float64
// keyed by command name, consumed only by time-trial tooling and
// never by compile/run's core semantics.
func generateDynamicDataCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "generate-dynamic-data [source]",
		Short: "sample per-command execution times into a .ddd file",
		RunE: func(cmd *cobra.Command, args []string) error {
			instrs, cs, err := runPipeline(cfg, args)
			if err != nil {
				return err
			}

			samples := map[string][]float64{}
			for _, in := range instrs {
				if in.Op != instr.OpCall {
					continue
				}
				entry, ok := cs.Lookup(command.Trigger{Op: instr.OpCall, Module: in.Library.ID.Module, Name: in.Library.ID.Name})
				if !ok {
					continue
				}
				c, err := entry.Factory().FromInstruction(in)
				if err != nil {
					continue
				}
				name := in.Library.ID.Module + ":" + in.Library.ID.Name
				samples[name] = append(samples[name], c.ExecutionTime(nil))
			}

			b, err := cbor.Marshal(samples)
			if err != nil {
				return err
			}
			return writeFile(cfg.Output, b)
		},
	}
}
