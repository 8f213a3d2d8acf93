package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/kerntune/internal/app"
)

func (c *CLI) newBenchmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "benchmark <config.yaml>",
		Short: "Run the benchmark steps of a configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			force, _ := cmd.Flags().GetBool("force")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			verbose, _ := cmd.Flags().GetBool("verbose")

			summary, err := c.app.Benchmark(cmd.Context(), args[0], app.BenchmarkOptions{
				OutputDir: output,
				Force:     force,
				NoCache:   noCache,
				Verbose:   verbose,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d groups, %d steps, %d failures\n",
				summary.RunID, summary.Groups, len(summary.Steps), summary.Fails)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", ".", "Output directory for benchmark problems and data")
	cmd.Flags().BoolP("force", "f", false, "Redo problems and steps that already have results")
	cmd.Flags().BoolP("no-cache", "n", false, "Ignore step caches and regenerate solutions")
	cmd.Flags().BoolP("verbose", "v", false, "Log why each candidate solution was rejected")
	return cmd
}
