package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"gmprompt/internal/errors"
)

// BuiltinSource selects the catalog bundled into the binary.
const BuiltinSource = "builtin"

//go:embed data/catalog.json
var builtinJSON []byte

// maxDocumentSize bounds remote and local catalog documents.
const maxDocumentSize = 4 << 20

// Builtin returns the bundled catalog.
func Builtin() (*Catalog, error) {
	return Parse(builtinJSON, FormatJSON)
}

// Load fetches and validates the catalog named by source: BuiltinSource, a
// filesystem path, or an http(s) URL. The format follows the extension
// (.yaml/.yml for YAML, JSON otherwise). There is no retry.
func Load(ctx context.Context, source string) (*Catalog, error) {
	ctx, span := otel.Tracer("catalog").Start(ctx, "catalog.load")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.source", source))

	cat, err := load(ctx, source)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("catalog.systems", len(cat.systems)),
		attribute.Int("catalog.adventure_types", len(cat.adventureTypes)),
		attribute.Int("catalog.settings", len(cat.allSettings)),
	)
	return cat, nil
}

func load(ctx context.Context, source string) (*Catalog, error) {
	source = strings.TrimSpace(source)
	if source == "" || source == BuiltinSource {
		return Builtin()
	}

	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		raw, err := fetch(ctx, u.String())
		if err != nil {
			return nil, err
		}
		return Parse(raw, formatFor(u.Path))
	}

	raw, err := readFile(source)
	if err != nil {
		return nil, err
	}
	return Parse(raw, formatFor(source))
}

func formatFor(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func readFile(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to open catalog").
			WithMeta("source", name)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxDocumentSize))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read catalog").
			WithMeta("source", name)
	}
	return raw, nil
}

func fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to build catalog request")
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to fetch catalog").
			WithMeta("source", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.WrapWithCode(fmt.Errorf("unexpected status %s", resp.Status), errors.CodeUnavailable, "failed to fetch catalog").
			WithMeta("source", rawURL)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read catalog response").
			WithMeta("source", rawURL)
	}
	return raw, nil
}
