package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-validate markup files whenever they change",
		Long: "Validate every markup file below dir (default: the current directory), then keep\n" +
			"watching and re-validate files whose content changed. Stop with Ctrl-C.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := validateOptions(cmd)
			if err != nil {
				return err
			}
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return c.app.Watch(cmd.Context(), root, opts)
		},
	}
	addValidateFlags(cmd)
	return cmd
}
