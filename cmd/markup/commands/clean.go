package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/markup/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached validation service responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, _ := cmd.Flags().GetBool("catalog")
			return c.app.Clean(cmd.Context(), app.CleanOptions{Catalog: catalog})
		},
	}

	cmd.Flags().BoolP("catalog", "c", false, "Also remove the XML catalog and downloaded DTDs")

	return cmd
}
