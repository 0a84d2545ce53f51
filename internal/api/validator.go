package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
)

type validationErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RequestValidator checks requests against the OpenAPI document before they
// reach a handler. Requests for paths the document does not describe pass
// through untouched so the router can answer them.
func RequestValidator(logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	// Match on the request path alone, whatever host serves the API.
	doc.Servers = nil

	router, err := legacy.NewRouter(doc, openapi3.DisableSchemaFormatValidation())
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Debug("request failed OpenAPI validation",
					"path", r.URL.Path,
					"method", r.Method,
					"error", err,
				)
				writeValidationError(w, validationMessage(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			return fmt.Sprintf("invalid %s parameter %q: %s", reqErr.Parameter.In, reqErr.Parameter.Name, reqErr.Reason)
		}
		if reqErr.RequestBody != nil {
			if reqErr.Err != nil {
				return "invalid request body: " + reqErr.Err.Error()
			}
			return "invalid request body: " + reqErr.Reason
		}
	}
	return err.Error()
}

func writeValidationError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	//nolint:errcheck // Best effort response writing
	json.NewEncoder(w).Encode(validationErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}
