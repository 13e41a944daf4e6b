package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/suite"

	"gmprompt/internal/catalog"
	"gmprompt/internal/history"
	gmcp "gmprompt/internal/mcp"
	"gmprompt/internal/prompt"
)

type ServerTestSuite struct {
	suite.Suite
	ctx     context.Context
	cancel  context.CancelFunc
	store   *catalog.Store
	history *history.Store
	session *mcp.ClientSession
	served  chan error
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.store = catalog.NewStore()

	var err error
	s.history, err = history.Open(filepath.Join(s.T().TempDir(), "prompts.db"))
	s.Require().NoError(err)

	server := gmcp.NewServer(s.store, "test", s.history, nil)
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	s.served = make(chan error, 1)
	go func() {
		s.served <- server.Run(s.ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	s.session, err = client.Connect(s.ctx, clientTransport, nil)
	s.Require().NoError(err)
}

func (s *ServerTestSuite) TearDownTest() {
	s.session.Close()
	s.cancel()
	<-s.served
	s.history.Close()
}

func (s *ServerTestSuite) call(name string, args map[string]any) *mcp.CallToolResult {
	res, err := s.session.CallTool(s.ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	s.Require().NoError(err)
	s.Require().NotNil(res)
	return res
}

func decode[T any](s *ServerTestSuite, structured any) T {
	raw, err := json.Marshal(structured)
	s.Require().NoError(err)
	var out T
	s.Require().NoError(json.Unmarshal(raw, &out))
	return out
}

func textOf(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func (s *ServerTestSuite) TestToolsFailBeforeCatalogLoads() {
	res := s.call(gmcp.ListCatalogTool, map[string]any{})
	s.Assert().True(res.IsError)
	s.Assert().Contains(textOf(res), "catalog unavailable")

	res = s.call(gmcp.GeneratePromptTool, map[string]any{"system": "Pathfinder"})
	s.Assert().True(res.IsError)
}

func (s *ServerTestSuite) TestListCatalog() {
	s.Require().NoError(s.store.Load(s.ctx, catalog.BuiltinSource))

	res := s.call(gmcp.ListCatalogTool, map[string]any{})
	s.Require().False(res.IsError, textOf(res))

	out := decode[gmcp.CatalogOutput](s, res.StructuredContent)
	s.Assert().Len(out.Systems, len(s.store.Systems()))
	s.Assert().Len(out.ClassicSettings, 4)
	s.Assert().Len(out.UniqueSettings, 6)
	s.Assert().Len(out.TwistedSettings, 3)
}

func (s *ServerTestSuite) TestGenerateMatchesRender() {
	s.Require().NoError(s.store.Load(s.ctx, catalog.BuiltinSource))
	cat, err := s.store.Catalog()
	s.Require().NoError(err)

	res := s.call(gmcp.GeneratePromptTool, map[string]any{
		"system":          "Call of Cthulhu",
		"adventure_types": []string{"Mystery & Intrigue"},
		"settings":        []string{"Coastal City", "Fantasy"},
	})
	s.Require().False(res.IsError, textOf(res))

	adv, _ := cat.AdventureType("Mystery & Intrigue")
	want := prompt.Render("Call of Cthulhu", []catalog.AdventureType{adv},
		[]string{"Coastal City", "Fantasy"}, cat.AllSettings())

	out := decode[gmcp.GenerateOutput](s, res.StructuredContent)
	s.Assert().Equal(want, out.Prompt)
	s.Assert().Equal(want, textOf(res))
	s.Assert().Equal([]string{"Fantasy"}, out.Unresolved)
	s.Assert().NotEmpty(out.HistoryID)

	entries, err := s.history.Recent(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Assert().Equal(out.HistoryID, entries[0].ID)
}

func (s *ServerTestSuite) TestGenerateWithoutSystem() {
	s.Require().NoError(s.store.Load(s.ctx, catalog.BuiltinSource))

	res := s.call(gmcp.GeneratePromptTool, map[string]any{"settings": []string{"Underdark"}})
	s.Assert().True(res.IsError)
	s.Assert().Equal("no system selected", textOf(res))
}

func (s *ServerTestSuite) TestGenerateUnknownSystem() {
	s.Require().NoError(s.store.Load(s.ctx, catalog.BuiltinSource))

	res := s.call(gmcp.GeneratePromptTool, map[string]any{"system": "Fate"})
	s.Assert().True(res.IsError)
	s.Assert().Equal(`unknown system "Fate"`, textOf(res))
}
