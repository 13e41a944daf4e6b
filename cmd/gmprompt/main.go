// gmprompt builds adventure prompts for tabletop game masters: pick a
// system, adventure types and settings, and the prompt lands on the
// clipboard ready for an AI text generator.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gmprompt/cmd/gmprompt/ui"
	"gmprompt/internal/config"
	"gmprompt/internal/errors"
)

type rootOptions struct {
	catalogSource string
	debug         bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gmprompt",
		Short: "Build adventure prompts for tabletop game masters",
		Long: `gmprompt assembles a game system, adventure types and settings into an
adventure prompt and copies it to the clipboard.

Modes:
  gmprompt            Interactive picker (default)
  gmprompt generate   Build a prompt from flags
  gmprompt catalog    Print the catalog
  gmprompt history    Show recently generated prompts
  gmprompt mcp        Serve prompt tools over MCP on stdio`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.catalogSource, "catalog", "",
		"Catalog source: builtin, a file path or an http(s) URL (overrides GMPROMPT_CATALOG)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false,
		"Write debug logs (overrides DEBUG)")

	cmd.AddCommand(
		newCatalogCmd(opts),
		newGenerateCmd(opts),
		newHistoryCmd(opts),
		newMCPCmd(opts),
	)
	return cmd
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.catalogSource != "" {
		cfg.CatalogSource = opts.catalogSource
	}
	if opts.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	model := ui.NewModel(ui.Dependencies{
		Context:       a.ctx,
		Store:         a.store,
		CatalogSource: a.cfg.CatalogSource,
		Publish:       a.publisherConfig(nil),
		Sender:        a.sender,
		Debug:         a.debug,
	})

	a.debug.Println("Starting adventure prompt builder")
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(a.ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}

// reportError prints err for a person at a terminal, without error codes.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", errors.GetMessage(err))
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
