package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"arbiter-hq/gavel/pkg/cli"
	"arbiter-hq/gavel/pkg/config"
	"arbiter-hq/gavel/pkg/policy"
	"arbiter-hq/gavel/pkg/policy/registry"
	"arbiter-hq/gavel/pkg/policy/source"
)

var rulesFlags struct {
	format string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the configured rule set",
	Long: `Load the configured rule source and inspect its policies.

The source is selected by the rules section of the configuration
file: a local file or directory, or a git repository checked out at
its pinned branch.

Subcommands:
  list  - List all policies
  show  - Show one policy in detail`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all policies",
	Long: `List every policy in the configured rule set.

Examples:
  # Aligned table on the terminal
  gavel rules list

  # Machine readable listing
  gavel rules list --format json`,
	RunE: listRules,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show <policy-id>",
	Short: "Show one policy in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  showRule,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesShowCmd)

	rulesListCmd.Flags().StringVar(&rulesFlags.format, "format", "text", "output format: text, json")
	rulesShowCmd.Flags().StringVar(&rulesFlags.format, "format", "text", "output format: text, json")
}

// buildSource constructs the rule source selected by rules.mode.
func buildSource(cfg *config.Config) (source.Source, error) {
	switch cfg.Rules.Mode {
	case "git":
		return source.NewGitSource(&source.GitConfig{
			Repository:   cfg.Rules.Git.Repository,
			Branch:       cfg.Rules.Git.Branch,
			Dir:          cfg.Rules.Git.Dir,
			LocalPath:    cfg.Rules.Git.LocalPath,
			Depth:        cfg.Rules.Git.Depth,
			CloneTimeout: cfg.Rules.Git.CloneTimeout.Std(),
			Auth: source.GitAuth{
				Type:             cfg.Rules.Git.Auth.Type,
				Token:            cfg.Rules.Git.Auth.Token,
				SSHKeyPath:       cfg.Rules.Git.Auth.SSHKeyPath,
				SSHKeyPassphrase: cfg.Rules.Git.Auth.SSHKeyPassphrase,
			},
		})
	default:
		return source.NewFileSource(cfg.Rules.Path), nil
	}
}

// loadRegistry builds the configured rule source and loads it. A load
// failure maps to the validation exit status.
func loadRegistry(ctx context.Context) (*registry.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	src, err := buildSource(cfg)
	if err != nil {
		return nil, err
	}

	reg := registry.New(src)
	if _, err := reg.Load(ctx); err != nil {
		return nil, cli.NewExitError(cli.ExitInvalid, err)
	}
	return reg, nil
}

type ruleSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Severity    string   `json:"severity"`
	Conditions  []string `json:"conditions"`
	Source      string   `json:"source,omitempty"`
}

func summarize(p *policy.Policy) ruleSummary {
	s := ruleSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Severity:    string(p.Severity),
		Conditions:  p.Conditions.Keys(),
	}
	if p.SourceFile != "" {
		s.Source = fmt.Sprintf("%s:%d", p.SourceFile, p.Line)
	}
	return s
}

func listRules(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(rulesFlags.format)
	if err != nil {
		return err
	}
	if format == cli.FormatCSV {
		return fmt.Errorf("csv output is not supported for rules list")
	}

	reg, err := loadRegistry(context.Background())
	if err != nil {
		return err
	}

	policies := reg.GetAll()

	if format == cli.FormatJSON {
		summaries := make([]ruleSummary, 0, len(policies))
		for _, p := range policies {
			summaries = append(summaries, summarize(p))
		}
		return cli.WriteJSON(os.Stdout, summaries)
	}

	table := cli.NewTable(os.Stdout, "ID", "SEVERITY", "NAME")
	for _, p := range policies {
		table.Row(p.ID, string(p.Severity), p.Name)
	}
	if err := table.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d policies, rule set version %s\n", reg.Count(), reg.Version())
	return nil
}

func showRule(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(rulesFlags.format)
	if err != nil {
		return err
	}
	if format == cli.FormatCSV {
		return fmt.Errorf("csv output is not supported for rules show")
	}

	reg, err := loadRegistry(context.Background())
	if err != nil {
		return err
	}

	p, err := reg.GetByID(args[0])
	if err != nil {
		return err
	}

	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, summarize(p))
	}

	fmt.Printf("ID:          %s\n", p.ID)
	fmt.Printf("Name:        %s\n", p.Name)
	fmt.Printf("Severity:    %s\n", p.Severity)
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
	fmt.Printf("Conditions:  %s\n", strings.Join(p.Conditions.Keys(), ", "))
	if p.SourceFile != "" {
		fmt.Printf("Source:      %s:%d\n", p.SourceFile, p.Line)
	}
	return nil
}
