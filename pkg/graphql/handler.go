package graphql

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
	"github.com/graphql-go/handler"
)

const maxBodyBytes = 1 << 20

// Handler serves one schema through graphql-go/handler. In front of it the
// handler refuses oversized and malformed bodies with 400 and mutations sent
// over GET with 405. Browsers that GET the endpoint get the playground.
type Handler struct {
	next *handler.Handler
}

// NewHandler returns a Handler with the playground enabled.
func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{next: handler.New(&handler.Config{
		Schema:     &schema,
		Pretty:     false,
		Playground: true,
	})}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var err error
	if r.Method == http.MethodGet {
		err = checkGet(r)
	} else {
		err = checkBody(r)
	}

	var notAllowed errMutationOverGet
	switch {
	case errors.As(err, &notAllowed):
		w.Header().Set("Allow", http.MethodPost)
		writeErrors(w, http.StatusMethodNotAllowed, err)
		return
	case err != nil:
		writeErrors(w, http.StatusBadRequest, err)
		return
	}

	// The request context carries the caller identity into resolvers.
	h.next.ContextHandler(r.Context(), w, r)
}

type errMutationOverGet struct{}

func (errMutationOverGet) Error() string { return "mutations must be sent with POST" }

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

func checkGet(r *http.Request) error {
	q := r.URL.Query()
	if q.Get("query") == "" {
		if wantsHTML(r) {
			return nil
		}
		return errors.New("missing query")
	}
	if raw := q.Get("variables"); raw != "" && !json.Valid([]byte(raw)) {
		return errors.New("invalid variables")
	}
	if isMutation(handler.NewRequestOptions(r)) {
		return errMutationOverGet{}
	}
	return nil
}

// checkBody enforces the size limit and validates the body, then puts it
// back for the executor.
func checkBody(r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return fmt.Errorf("request body too large (max %d bytes)", maxBodyBytes)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	// A query in the URL takes precedence over the body.
	if r.URL.Query().Get("query") != "" {
		return nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case handler.ContentTypeGraphQL:
		if strings.TrimSpace(string(body)) == "" {
			return errors.New("missing query")
		}
		return nil
	case handler.ContentTypeFormURLEncoded:
		return nil
	}

	var opts struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(body, &opts); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if opts.Query == "" {
		return errors.New("missing query")
	}
	return nil
}

// isMutation reports whether the operation that would run is a mutation.
// Documents that do not parse are left for the executor to report.
func isMutation(opts *handler.RequestOptions) bool {
	doc, err := parser.Parse(parser.ParseParams{
		Source: source.NewSource(&source.Source{Body: []byte(opts.Query)}),
	})
	if err != nil {
		return false
	}

	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if opts.OperationName != "" && (op.Name == nil || op.Name.Value != opts.OperationName) {
			continue
		}
		return op.Operation == ast.OperationTypeMutation
	}
	return false
}

func writeErrors(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&graphql.Result{ //nolint:errcheck
		Errors: []gqlerrors.FormattedError{gqlerrors.NewFormattedError(err.Error())},
	})
}
