package docs

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.json
var raw []byte

// Document is the parsed and validated OpenAPI description of the HTTP API.
type Document struct {
	doc  *openapi3.T
	body []byte
}

// Load parses the embedded document and validates it. A broken document is a
// startup error rather than something clients discover.
func Load(ctx context.Context) (*Document, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: parse: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal: %w", err)
	}
	return &Document{doc: doc, body: body}, nil
}

// HasOperation reports whether method+path is described.
func (d *Document) HasOperation(method, path string) bool {
	item := d.doc.Paths.Find(path)
	if item == nil {
		return false
	}
	return item.GetOperation(method) != nil
}

// ServeHTTP handles GET /identity/v1/openapi.json
func (d *Document) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.body)
}
