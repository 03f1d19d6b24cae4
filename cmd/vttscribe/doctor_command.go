package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vttscribe/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external programs and directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()

			statuses := preflight.CheckSystemDeps(cfg)
			depRows := make([][]string, 0, len(statuses))
			missing := 0
			for _, status := range statuses {
				state := "ok"
				detail := status.Path
				switch {
				case status.Available:
				case status.Optional:
					state = "optional"
					detail = status.Detail
				default:
					state = "missing"
					detail = status.Detail
					missing++
				}
				depRows = append(depRows, []string{status.Name, status.Command, state, detail, status.Description})
			}
			fmt.Fprintf(out, "Provider: %s\n", cfg.Transcription.Provider)
			fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "Status", "Detail", "Purpose"}, depRows, nil))

			checks := preflight.RunAll(cfg)
			checkRows := make([][]string, 0, len(checks))
			for _, check := range checks {
				checkRows = append(checkRows, []string{check.Name, passFail(check.Passed), check.Detail})
				if !check.Passed {
					missing++
				}
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, checkRows, nil))

			if missing > 0 {
				return fmt.Errorf("%d required %s unavailable", missing, plural(missing, "check is", "checks are"))
			}
			fmt.Fprintln(out, "All required dependencies are available")
			return nil
		},
	}
}

func passFail(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
