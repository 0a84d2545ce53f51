package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
)

const (
	DocsPath        = "/docs"
	DocsOpenAPIPath = "/docs/openapi"
)

// RegisterDocsRoutes serves doc on the given router:
//
//	GET /             redirects to /docs
//	GET /docs         Swagger UI titled after the document
//	GET /docs/openapi the document as JSON
//
// The document is encoded once here, so a document that cannot be encoded
// fails router construction instead of the first docs request.
func RegisterDocsRoutes(r chi.Router, doc *openapi3.T) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}

	title := "API"
	if doc.Info != nil && doc.Info.Title != "" {
		title = doc.Info.Title
	}
	var page bytes.Buffer
	if err := swaggerUI.Execute(&page, struct{ Title, SpecURL string }{title, DocsOpenAPIPath}); err != nil {
		return fmt.Errorf("failed to render Swagger UI: %w", err)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, DocsPath, http.StatusMovedPermanently)
	})
	r.Get(DocsPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page.Bytes()) //nolint:errcheck // Nothing useful to do if write fails
	})
	r.Get(DocsOpenAPIPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body) //nolint:errcheck // Nothing useful to do if write fails
	})
	return nil
}

var swaggerUI = template.Must(template.New("swagger-ui").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} - Swagger UI</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
  <style>body { margin: 0; padding: 0; }</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-standalone-preset.js"></script>
  <script>
    window.onload = () => {
      SwaggerUIBundle({
        url: {{.SpecURL}},
        dom_id: '#swagger-ui',
        presets: [SwaggerUIBundle.presets.apis, SwaggerUIStandalonePreset],
        layout: 'StandaloneLayout'
      });
    };
  </script>
</body>
</html>`))
