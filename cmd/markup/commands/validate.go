package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/markup/internal/app"
	"go.trai.ch/markup/internal/core/domain"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate markup files, directories, or standard input",
		Long: "Validate markup files concurrently and print one report per file.\n" +
			"Directories are searched for .html, .htm and .xhtml files; \"-\" reads standard input.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := validateOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.ValidateFiles(cmd.Context(), args, opts)
		},
	}
	addValidateFlags(cmd)
	return cmd
}

func addValidateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("service", "s", "", "Validation service: local or w3c (default from config)")
	cmd.Flags().Bool("dtd", true, "Validate against the document type definition (local service)")
	cmd.Flags().Bool("no-dtd", false, "Only check well-formedness (local service)")
	cmd.Flags().String("catalog", "", "XML catalog directory used by the local service")
	cmd.Flags().String("endpoint", "", "Host of the remote validation service")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass cached validation service responses")
	cmd.Flags().Bool("json", false, "Print a JSON report")
	cmd.MarkFlagsMutuallyExclusive("dtd", "no-dtd")
}

// validateOptions maps the flags the user set onto per-call overrides; unset flags keep the configured defaults.
func validateOptions(cmd *cobra.Command) (app.ValidateOptions, error) {
	flags := cmd.Flags()
	var overrides []domain.Option

	if flags.Changed("service") {
		name, _ := flags.GetString("service")
		service, err := domain.ParseService(name)
		if err != nil {
			return app.ValidateOptions{}, err
		}
		overrides = append(overrides, domain.WithService(service))
	}
	if flags.Changed("dtd") {
		dtd, _ := flags.GetBool("dtd")
		overrides = append(overrides, domain.WithDTDValidate(dtd))
	}
	if flags.Changed("no-dtd") {
		noDTD, _ := flags.GetBool("no-dtd")
		overrides = append(overrides, domain.WithDTDValidate(!noDTD))
	}
	if flags.Changed("catalog") {
		catalog, _ := flags.GetString("catalog")
		overrides = append(overrides, domain.WithCatalogPath(catalog))
	}
	if flags.Changed("endpoint") {
		endpoint, _ := flags.GetString("endpoint")
		overrides = append(overrides, domain.WithServiceEndpoint(endpoint))
	}
	if flags.Changed("no-cache") {
		noCache, _ := flags.GetBool("no-cache")
		overrides = append(overrides, domain.WithNoCache(noCache))
	}

	asJSON, _ := flags.GetBool("json")
	return app.ValidateOptions{Overrides: overrides, JSON: asJSON}, nil
}
