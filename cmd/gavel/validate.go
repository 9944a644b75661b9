package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arbiter-hq/gavel/pkg/cli"
	"arbiter-hq/gavel/pkg/policy/registry"
	"arbiter-hq/gavel/pkg/policy/source"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate rule files",
	Long: `Validate rule files without evaluating anything.

The path argument names a rule file or directory. When omitted, the
configured rules path is validated instead. Every definition is
checked for structural problems: missing fields, malformed conditions,
reserved or duplicate identifiers.

The command exits 0 when the rule set is valid and 2 when it is not,
so it can gate a rules repository in CI.

Examples:
  # Validate a rules directory
  gavel validate rules/

  # Validate the configured rule source
  gavel validate --config gavel.yaml

  # Machine readable result
  gavel validate rules/ --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: validateRules,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

type validateResult struct {
	Valid    bool   `json:"valid"`
	Path     string `json:"path"`
	Policies int    `json:"policies,omitempty"`
	Version  string `json:"version,omitempty"`
	Error    string `json:"error,omitempty"`
}

func validateRules(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.format)
	if err != nil {
		return err
	}
	if format == cli.FormatCSV {
		return fmt.Errorf("csv output is not supported for validate")
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Rules.Path
	}

	reg := registry.New(source.NewFileSource(path))
	if _, err := reg.Load(context.Background()); err != nil {
		if format == cli.FormatJSON {
			result := validateResult{Path: path, Error: err.Error()}
			if werr := cli.WriteJSON(os.Stdout, result); werr != nil {
				return werr
			}
		}
		return cli.NewExitError(cli.ExitInvalid, err)
	}

	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, validateResult{
			Valid:    true,
			Path:     path,
			Policies: reg.Count(),
			Version:  reg.Version(),
		})
	}

	fmt.Printf("Validated %d policies from %s\n", reg.Count(), path)
	fmt.Printf("Rule set version: %s\n", reg.Version())
	return nil
}
