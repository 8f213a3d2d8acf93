package commands

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

func (c *CLI) newCapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "caps <gfx>",
		Short: "Probe and print the capabilities of a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assembler, _ := cmd.Flags().GetString("assembler")
			asJSON, _ := cmd.Flags().GetBool("json")

			set, err := c.app.Capabilities(cmd.Context(), args[0], assembler)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(set); err != nil {
					return zerr.Wrap(err, "failed to encode capabilities")
				}
				return nil
			}

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(set); err != nil {
				return zerr.Wrap(err, "failed to encode capabilities")
			}
			return enc.Close()
		},
	}
	cmd.Flags().String("assembler", "", "Assembler used to probe the target")
	cmd.Flags().Bool("json", false, "Print the capabilities as JSON")
	return cmd
}
