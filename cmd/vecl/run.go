package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vecl/internal/config"
	"vecl/internal/debugserver"
	"vecl/internal/runtime"
	"vecl/internal/stdcommands"
)

func runCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run [source]",
		Short: "compile and run source in-process",
		RunE: func(cmd *cobra.Command, args []string) error {
			instrs, cs, err := runPipeline(cfg, args)
			if err != nil {
				return err
			}

			ctx := runtime.NewContext()
			ctx.RegisterPayload("std", "stdout", func() interface{} { return &strings.Builder{} })
			dispatcher := stdcommands.ExecDispatcher{Suite: cs}
			prog := runtime.NewProgram(instrs)

			var sink *debugserver.Server
			if cfg.DebugRun {
				sink, err = debugserver.Start(ctx)
				if err != nil {
					return err
				}
				defer sink.Close()
			}

			for {
				status, err := prog.More(ctx, dispatcher)
				if err != nil {
					return err
				}
				if sink != nil {
					sink.Notify(ctx, prog)
				}
				if status == runtime.StatusDone {
					break
				}
			}

			if out, ok := ctx.Payload("std", "stdout").(*strings.Builder); ok {
				fmt.Print(out.String())
			}
			return nil
		},
	}
}
