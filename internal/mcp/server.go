// Package mcp exposes the catalog and prompt generation as Model Context
// Protocol tools so an AI host can request adventure prompts directly.
package mcp

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gmprompt/internal/catalog"
	"gmprompt/internal/debug"
	"gmprompt/internal/errors"
	"gmprompt/internal/history"
	"gmprompt/internal/prompt"
)

const (
	serverName = "gmprompt"

	ListCatalogTool    = "list_catalog"
	GeneratePromptTool = "generate_adventure_prompt"
)

type ListCatalogInput struct{}

type CatalogOutput struct {
	Systems         []catalog.System        `json:"systems" jsonschema:"selectable game systems"`
	AdventureTypes  []catalog.AdventureType `json:"adventure_types" jsonschema:"selectable adventure tones"`
	ClassicSettings []catalog.Setting       `json:"classic_settings" jsonschema:"classic settings"`
	UniqueSettings  []catalog.Setting       `json:"unique_settings" jsonschema:"unique settings"`
	TwistedSettings []catalog.Setting       `json:"twisted_settings" jsonschema:"twisted settings"`
}

type GenerateInput struct {
	System         string   `json:"system,omitempty" jsonschema:"system name from list_catalog"`
	AdventureTypes []string `json:"adventure_types,omitempty" jsonschema:"adventure type titles in order"`
	Settings       []string `json:"settings,omitempty" jsonschema:"setting titles in order"`
}

type GenerateOutput struct {
	Prompt     string   `json:"prompt" jsonschema:"the rendered adventure prompt"`
	Unresolved []string `json:"unresolved,omitempty" jsonschema:"selected titles missing from the catalog"`
	HistoryID  string   `json:"history_id,omitempty" jsonschema:"id of the stored history entry"`
}

// Server serves prompt tools over a single MCP transport.
type Server struct {
	store    *catalog.Store
	recorder prompt.Recorder
	debug    *debug.Logger
	tracer   trace.Tracer
	server   *mcp.Server
}

// NewServer registers the tools against store. recorder may be nil.
func NewServer(store *catalog.Store, version string, recorder prompt.Recorder, debug *debug.Logger) *Server {
	s := &Server{
		store:    store,
		recorder: recorder,
		debug:    debug,
		tracer:   otel.Tracer("mcp-server"),
		server:   mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ListCatalogTool,
		Description: "List the systems, adventure types and settings available for adventure prompts.",
	}, s.listCatalog)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        GeneratePromptTool,
		Description: "Render an adventure prompt for a system, adventure types and settings chosen from list_catalog.",
	}, s.generate)

	return s
}

// Run serves transport until ctx is done or the peer disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.debug.Printf("MCP server starting")
	if err := s.server.Run(ctx, transport); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// RunStdio serves on stdin/stdout.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) listCatalog(ctx context.Context, _ *mcp.CallToolRequest, _ ListCatalogInput) (*mcp.CallToolResult, CatalogOutput, error) {
	_, span := s.tracer.Start(ctx, "mcp."+ListCatalogTool)
	defer span.End()

	if _, err := s.store.Catalog(); err != nil {
		span.RecordError(err)
		return nil, CatalogOutput{}, toolError(err)
	}

	return nil, CatalogOutput{
		Systems:         s.store.Systems(),
		AdventureTypes:  s.store.AdventureTypes(),
		ClassicSettings: s.store.ClassicSettings(),
		UniqueSettings:  s.store.UniqueSettings(),
		TwistedSettings: s.store.TwistedSettings(),
	}, nil
}

func (s *Server) generate(ctx context.Context, _ *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, GenerateOutput, error) {
	ctx, span := s.tracer.Start(ctx, "mcp."+GeneratePromptTool, trace.WithAttributes(
		attribute.String("prompt.system", input.System),
		attribute.StringSlice("prompt.adventure_types", input.AdventureTypes),
		attribute.StringSlice("prompt.settings", input.Settings),
	))
	defer span.End()

	res, err := s.render(input)
	if err != nil {
		span.RecordError(err)
		s.debug.Debugw("generate tool failed", "system", input.System, "code", errors.GetCode(err), "error", err)
		return nil, GenerateOutput{}, toolError(err)
	}

	out := GenerateOutput{Prompt: res.Text, Unresolved: res.Unresolved}
	if s.recorder != nil {
		entry, err := s.recorder.Record(ctx, history.Entry{
			System:         res.System,
			AdventureTypes: res.AdventureTypes,
			Settings:       res.Settings,
			Prompt:         res.Text,
		})
		if err != nil {
			s.debug.Warnw("failed to record prompt", "error", err)
		} else {
			out.HistoryID = entry.ID
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: res.Text}},
	}, out, nil
}

// toolError is what the host sees when a tool fails: the message without
// the error code.
func toolError(err error) error {
	return stderrors.New(errors.GetMessage(err))
}

func (s *Server) render(input GenerateInput) (prompt.Result, error) {
	cat, err := s.store.Catalog()
	if err != nil {
		return prompt.Result{}, err
	}
	state, err := prompt.NewState(cat, input.System, input.AdventureTypes, input.Settings)
	if err != nil {
		return prompt.Result{}, err
	}
	return prompt.Generate(state, cat)
}
