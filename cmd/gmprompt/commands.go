package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gmprompt/internal/catalog"
	gmcp "gmprompt/internal/mcp"
	"gmprompt/internal/prompt"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the systems, adventure types and settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			cat, err := a.loadCatalog()
			if err != nil {
				return err
			}
			return printCatalog(cmd.OutOrStdout(), cat, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
	return cmd
}

// catalogDocument mirrors the on-disk catalog layout so printed JSON and
// YAML can be loaded back with --catalog.
type catalogDocument struct {
	Data catalogData `json:"data" yaml:"data"`
}

type catalogData struct {
	AdventureTypes  []catalog.AdventureType `json:"adventureTypes" yaml:"adventureTypes"`
	ClassicSettings []catalog.Setting       `json:"classicSettings" yaml:"classicSettings"`
	UniqueSettings  []catalog.Setting       `json:"uniqueSettings" yaml:"uniqueSettings"`
	TwistedSettings []catalog.Setting       `json:"twistedSettings" yaml:"twistedSettings"`
	Systems         []catalog.System        `json:"systems" yaml:"systems"`
}

func printCatalog(w io.Writer, cat *catalog.Catalog, output string) error {
	doc := catalogDocument{Data: catalogData{
		AdventureTypes:  cat.AdventureTypes(),
		ClassicSettings: cat.Settings(catalog.GroupClassic),
		UniqueSettings:  cat.Settings(catalog.GroupUnique),
		TwistedSettings: cat.Settings(catalog.GroupTwisted),
		Systems:         cat.Systems(),
	}}

	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "text":
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	fmt.Fprintln(w, "Systems:")
	for _, sys := range doc.Data.Systems {
		fmt.Fprintf(w, "  %s - %s\n", sys.Name, sys.Description)
	}
	fmt.Fprintln(w, "\nAdventure Types:")
	for _, adv := range doc.Data.AdventureTypes {
		fmt.Fprintf(w, "  %s - %s\n", adv.Title, adv.Description)
	}
	for _, group := range catalog.Groups {
		fmt.Fprintf(w, "\nSettings (%s):\n", group)
		for _, setting := range cat.Settings(group) {
			fmt.Fprintf(w, "  %s - %s\n", setting.Title, setting.Description)
		}
	}
	return nil
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		system         string
		adventureTypes []string
		settings       []string
		send           bool
		printPrompt    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a prompt from flags and copy it to the clipboard",
		Example: `  gmprompt generate --system "Call of Cthulhu" \
    --adventure-type "Mystery & Intrigue" --setting "Coastal City" --print`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			cat, err := a.loadCatalog()
			if err != nil {
				return err
			}

			state, err := prompt.NewState(cat, system, adventureTypes, settings)
			if err != nil {
				return err
			}
			res, err := prompt.Generate(state, cat)
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			if len(res.Unresolved) > 0 {
				fmt.Fprintf(stderr, "Warning: not in catalog: %s\n", strings.Join(res.Unresolved, ", "))
			}

			notifier := prompt.NotifierFunc(func(message, action string, _ prompt.NotificationConfig) {
				fmt.Fprintln(stderr, message)
			})
			historyID, err := prompt.NewPublisher(a.publisherConfig(notifier)).Publish(a.ctx, res)
			if err != nil {
				fmt.Fprintf(stderr, "Warning: prompt not saved to history: %v\n", err)
			}

			if printPrompt {
				fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			}

			if !send {
				return nil
			}
			response, err := a.sender.Send(a.ctx, res, historyID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), response)
			return nil
		},
	}

	cmd.Flags().StringVar(&system, "system", "", "Game system name (required)")
	cmd.Flags().StringArrayVar(&adventureTypes, "adventure-type", nil, "Adventure type title; repeat to add more")
	cmd.Flags().StringArrayVar(&settings, "setting", nil, "Setting title; repeat to add more")
	cmd.Flags().BoolVar(&send, "send", false, "Also send the prompt to the configured model and print the reply")
	cmd.Flags().BoolVar(&printPrompt, "print", false, "Print the prompt to stdout")
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently generated prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.history.Recent(a.ctx, limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(w, "No prompts yet. Run gmprompt or gmprompt generate first.")
				return nil
			}

			fmt.Fprintf(w, "Recent prompts (%d):\n\n", len(entries))
			for _, e := range entries {
				fmt.Fprintf(w, "[%s] %s | %s\n", e.ID, e.Timestamp.Local().Format(time.DateTime), e.System)
				if len(e.AdventureTypes) > 0 {
					fmt.Fprintf(w, "Adventure types: %s\n", strings.Join(e.AdventureTypes, ", "))
				}
				if len(e.Settings) > 0 {
					fmt.Fprintf(w, "Settings: %s\n", strings.Join(e.Settings, ", "))
				}
				if e.Response != "" {
					fmt.Fprintf(w, "Response (%s, %v): %s\n", e.Metadata.Model, e.Metadata.ResponseTime, truncate(e.Response, 200))
				} else if e.Metadata.Error != nil {
					fmt.Fprintf(w, "Response failed: %s\n", *e.Metadata.Error)
				}
				fmt.Fprintln(w, strings.Repeat("-", 50))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of entries to show")
	return cmd
}

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve list_catalog and generate_adventure_prompt over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.loadCatalog(); err != nil {
				return err
			}

			server := gmcp.NewServer(a.store, a.cfg.Tracing.ServiceVersion, a.history, a.debug)
			return server.RunStdio(a.ctx)
		},
	}
}

// truncate collapses whitespace and keeps at most n runes.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
