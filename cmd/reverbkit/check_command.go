package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reverbkit/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <in-data-dir> <out-data-dir>",
		Short: "Check directories, catalogs and external tools before a run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cfg, args[0], args[1])

			rows := make([][]string, 0, len(results)+2)
			for _, r := range results {
				rows = append(rows, []string{r.Name, checkStatus(r.Passed, r.Optional), r.Detail})
			}
			for _, dep := range preflight.CheckSystemDeps(cfg) {
				detail := dep.Description
				if dep.Available {
					detail = dep.Command + " (" + dep.Description + ")"
				} else if dep.Detail != "" {
					detail = dep.Detail + " (" + dep.Description + ")"
				}
				rows = append(rows, []string{dep.Name, checkStatus(dep.Available, dep.Optional && !dep.Available), detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderTable(out, []string{"Check", "Status", "Detail"}, rows, nil))
			if err := preflight.Err(results); err != nil {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}

func checkStatus(passed, optional bool) string {
	switch {
	case passed && !optional:
		return "ok"
	case passed || optional:
		return "skip"
	default:
		return "FAIL"
	}
}
