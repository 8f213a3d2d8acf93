package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/kerntune/internal/app"
	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/engine/validation"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <LogicPath>",
		Short: "Re-check the solutions stored in library logic files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checkMI, _ := cmd.Flags().GetBool("check-matrix-instruction")
			jobs, _ := cmd.Flags().GetInt("jobs")
			assembler, _ := cmd.Flags().GetString("assembler")

			res, ok, err := c.app.Validate(cmd.Context(), args[0], app.ValidateOptions{
				CheckMatrixInstruction: checkMI,
				Jobs:                   jobs,
				Assembler:              assembler,
			})
			out := cmd.OutOrStdout()
			if !ok {
				_, _ = fmt.Fprintln(out, "No checks specified")
				return nil
			}
			if err != nil && !errors.Is(err, domain.ErrRejectedSolutions) {
				return err
			}

			_, _ = fmt.Fprintf(out, "Total: %d\nKeep: %d\nReject: %d\n", res.Total, res.Keep, res.Rejected())
			return err
		},
	}
	cmd.Flags().Bool("check-matrix-instruction", false, "Validate matrix instruction settings")
	cmd.Flags().IntP("jobs", "j", validation.DefaultJobs, "Number of files validated in parallel")
	cmd.Flags().String("assembler", "", "Assembler used to probe target capabilities")
	return cmd
}
