package main

import (
	"fmt"
	"strings"

	"github.com/bgricker/uicheck/internal/cli"
	"github.com/bgricker/uicheck/internal/config"
	"github.com/bgricker/uicheck/internal/output"
	"github.com/bgricker/uicheck/internal/suite"
	"github.com/spf13/cobra"
)

func newListCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, d)
		},
	}
}

func runList(cmd *cobra.Command, d deps) error {
	cfg, warnings, err := cli.LoadConfig(cmd, d.env)
	if err != nil {
		return err
	}
	printWarnings(cmd, warnings)

	s := suite.ContractRenewal(cli.Credentials(cfg))
	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		return output.NewPretty(cmd.OutOrStdout()).RenderList(s.Names())
	case config.FormatJSON:
		docs := make(map[string]string)
		for _, c := range s.Cases() {
			if c.Doc != "" {
				docs[c.Name] = c.Doc
			}
		}
		return output.NewJSON(cmd.OutOrStdout()).Render(output.Report{
			Suite:    s.Name,
			Tests:    s.Names(),
			Docs:     docs,
			Warnings: warnings,
		})
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}
}

func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
	}
}
