// Package notiontest runs an in-memory stand-in for the Notion pages and
// database query endpoints.
package notiontest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Server struct {
	*httptest.Server

	mu    sync.Mutex
	order []string
	pages map[string]map[string]any

	FailQuery  bool
	FailCreate bool
	FailUpdate bool

	Creates int
	Updates int
	Queries int
}

func NewServer() *Server {
	s := &Server{pages: make(map[string]map[string]any)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// HTTPClient returns a client that sends every request to this server
// regardless of the host the SDK targets.
func (s *Server) HTTPClient() *http.Client {
	target, _ := url.Parse(s.URL)
	return &http.Client{Transport: rewriteTransport{target: target}}
}

// AddPage seeds a page with the given properties and returns its ID.
func (s *Server) AddPage(props map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.pages[id] = normalize(props)
	s.order = append(s.order, id)
	return id
}

// Page returns the stored properties of a page.
func (s *Server) Page(id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[id]
	return p, ok
}

func (s *Server) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/query"):
		s.Queries++
		if s.FailQuery {
			writeError(w, http.StatusUnauthorized, "unauthorized", "API token is invalid.")
			return
		}
		results := make([]map[string]any, 0, len(s.order))
		for _, id := range s.order {
			results = append(results, pageJSON(id, s.pages[id]))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"object":      "list",
			"results":     results,
			"has_more":    false,
			"next_cursor": nil,
		})

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/pages"):
		s.Creates++
		if s.FailCreate {
			writeError(w, http.StatusBadRequest, "validation_error", "Status is not a property that exists.")
			return
		}
		var body struct {
			Properties map[string]any `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		id := uuid.NewString()
		s.pages[id] = normalize(body.Properties)
		s.order = append(s.order, id)
		writeJSON(w, http.StatusOK, pageJSON(id, s.pages[id]))

	case r.Method == http.MethodPatch && strings.Contains(r.URL.Path, "/pages/"):
		s.Updates++
		if s.FailUpdate {
			writeError(w, http.StatusBadGateway, "service_unavailable", "Notion is unavailable.")
			return
		}
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		page, ok := s.pages[id]
		if !ok {
			writeError(w, http.StatusNotFound, "object_not_found", fmt.Sprintf("Could not find page with ID: %s.", id))
			return
		}
		var body struct {
			Properties map[string]any `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		for k, v := range normalize(body.Properties) {
			page[k] = v
		}
		writeJSON(w, http.StatusOK, pageJSON(id, page))

	default:
		writeError(w, http.StatusNotFound, "invalid_request_url", "Invalid request URL.")
	}
}

// normalize adds the "type" discriminator Notion returns on every property.
func normalize(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for name, raw := range props {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		cp := make(map[string]any, len(prop)+1)
		for k, v := range prop {
			cp[k] = v
		}
		if _, ok := cp["type"]; !ok {
			for _, typ := range []string{"title", "rich_text", "select", "date"} {
				if _, ok := cp[typ]; ok {
					cp["type"] = typ
					break
				}
			}
		}
		if _, ok := cp["id"]; !ok {
			cp["id"] = name
		}
		out[name] = cp
	}
	return out
}

func pageJSON(id string, props map[string]any) map[string]any {
	now := time.Now().UTC().Format(time.RFC3339)
	return map[string]any{
		"object":           "page",
		"id":               id,
		"created_time":     now,
		"last_edited_time": now,
		"archived":         false,
		"parent":           map[string]any{"type": "database_id", "database_id": "db"},
		"properties":       props,
		"url":              "https://www.notion.so/" + strings.ReplaceAll(id, "-", ""),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	writeJSON(w, code, map[string]any{
		"object":  "error",
		"status":  code,
		"code":    errCode,
		"message": message,
	})
}

type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	req.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

// Property builders in the shape Notion returns them.

func Title(s string) map[string]any {
	return map[string]any{"type": "title", "title": []any{textJSON(s)}}
}

func RichText(s string) map[string]any {
	return map[string]any{"type": "rich_text", "rich_text": []any{textJSON(s)}}
}

func Select(name string) map[string]any {
	return map[string]any{"type": "select", "select": map[string]any{"name": name}}
}

func EmptySelect() map[string]any {
	return map[string]any{"type": "select", "select": nil}
}

func Date(start string) map[string]any {
	return map[string]any{"type": "date", "date": map[string]any{"start": start}}
}

func textJSON(s string) map[string]any {
	return map[string]any{
		"type":       "text",
		"text":       map[string]any{"content": s},
		"plain_text": s,
	}
}
