package querysafe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/querysafe/querysafe/pkg/scrub"
)

// Request field names understood by the http host adapter.
const (
	FieldBody   = "body"
	FieldQuery  = "query"
	FieldParams = "params"
)

// requestHost adapts *http.Request to scrub.Host. The fields of a request
// cannot be assigned like plain properties, so every write-back goes
// through the carrier's canonical setter: RawQuery re-encoding for the
// query, the chi route context for params, and a replacement body reader
// for the JSON body.
type requestHost struct {
	r *http.Request
}

func (h *requestHost) Field(name string) (any, bool) {
	switch name {
	case FieldQuery:
		return h.queryField()
	case FieldParams:
		return h.paramsField()
	case FieldBody:
		return h.bodyField()
	}
	return nil, false
}

func (h *requestHost) SetField(name string, value any) error {
	switch name {
	case FieldQuery:
		return h.setQuery(value)
	case FieldParams:
		return h.setParams(value)
	case FieldBody:
		return h.setBody(value)
	}
	// Unknown fields are not an error: the configuration may name fields
	// only some host adapters expose.
	return nil
}

func (h *requestHost) ContentType() (string, bool) {
	ct := h.r.Header.Get("Content-Type")
	return ct, ct != ""
}

func (h *requestHost) queryField() (any, bool) {
	values := h.r.URL.Query()
	if len(values) == 0 {
		return nil, false
	}

	m := make(map[string]any, len(values))
	for key, vs := range values {
		if len(vs) == 1 {
			m[key] = vs[0]
			continue
		}
		items := make([]any, len(vs))
		for i, s := range vs {
			items[i] = s
		}
		m[key] = items
	}
	return m, true
}

func (h *requestHost) setQuery(value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return &scrub.TypeMismatchError{Want: "object", Got: fmt.Sprintf("%T", value)}
	}

	q := url.Values{}
	for key, v := range m {
		if items, ok := v.([]any); ok {
			for _, item := range items {
				q.Add(key, stringify(item))
			}
			continue
		}
		q.Add(key, stringify(v))
	}

	h.r.URL.RawQuery = q.Encode()
	return nil
}

func (h *requestHost) paramsField() (any, bool) {
	rctx := chi.RouteContext(h.r.Context())
	if rctx == nil || len(rctx.URLParams.Keys) == 0 {
		return nil, false
	}

	m := make(map[string]any, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		m[key] = rctx.URLParams.Values[i]
	}
	return m, true
}

// setParams rewrites route parameter values in place. Parameter names come
// from route patterns written by the application, not from the request, so
// only values are replaced.
func (h *requestHost) setParams(value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return &scrub.TypeMismatchError{Want: "object", Got: fmt.Sprintf("%T", value)}
	}

	rctx := chi.RouteContext(h.r.Context())
	if rctx == nil {
		return nil
	}

	for i, key := range rctx.URLParams.Keys {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				rctx.URLParams.Values[i] = s
			}
		}
	}
	return nil
}

// bodyField decodes a JSON body. The raw bytes are always restored as the
// request body first, so a body that turns out not to be JSON remains
// readable by the handler.
func (h *requestHost) bodyField() (any, bool) {
	if h.r.Body == nil || h.r.Body == http.NoBody {
		return nil, false
	}

	data, err := io.ReadAll(h.r.Body)
	_ = h.r.Body.Close()
	if err != nil {
		h.r.Body = http.NoBody
		return nil, false
	}
	h.r.Body = io.NopCloser(bytes.NewReader(data))

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}

func (h *requestHost) setBody(value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	h.r.Body = io.NopCloser(bytes.NewReader(data))
	h.r.ContentLength = int64(len(data))
	h.r.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
