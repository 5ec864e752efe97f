package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/roamweb/internal/api"
)

var (
	nodeID = uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	linker = uuid.MustParse("987fcdeb-51a2-43f7-8123-456789abcdef")
)

// stubAPI is a minimal in-memory content API for handler tests.
func stubAPI(t *testing.T) *api.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/nodes", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.Node{
			{ID: nodeID, Title: "Weekly Plan", Format: "org", Tags: []string{"planning"}},
			{ID: linker, Title: "Reading List", Format: "markdown"},
		})
	})
	mux.HandleFunc("GET /api/nodes/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != nodeID.String() {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "no such node"})
			return
		}
		json.NewEncoder(w).Encode(api.Node{
			ID:      nodeID,
			Title:   "Weekly Plan",
			Format:  "org",
			Content: "* TODO Review drafts\nSome notes here.",
		})
	})
	mux.HandleFunc("GET /api/nodes/{id}/backlinks", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.NodeRef{{ID: linker, Title: "Reading List"}})
	})
	mux.HandleFunc("POST /api/nodes", func(w http.ResponseWriter, r *http.Request) {
		var draft api.NodeDraft
		json.NewDecoder(r.Body).Decode(&draft)
		json.NewEncoder(w).Encode(api.Node{ID: nodeID, Title: draft.Title, Format: draft.Format})
	})
	mux.HandleFunc("DELETE /api/nodes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "plan" {
			json.NewEncoder(w).Encode([]api.Node{{ID: nodeID, Title: "Weekly Plan", Format: "org"}})
			return
		}
		json.NewEncoder(w).Encode([]api.Node{})
	})
	mux.HandleFunc("GET /api/tags", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.Tag{{Name: "planning", Count: 2}})
	})

	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	client, err := api.New(backend.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("api.New failed: %v", err)
	}
	return client
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	srv, err := New(stubAPI(t), nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return srv.Handler()
}

func get(t *testing.T, h http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexListsNodes(t *testing.T) {
	rec := get(t, newTestServer(t), "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Weekly Plan", "Reading List", "planning"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestViewRendersNodeWithBacklinks(t *testing.T) {
	rec := get(t, newTestServer(t), "/nodes/"+nodeID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "todo-keyword") {
		t.Error("rendered body missing keyword badge")
	}
	if !strings.Contains(body, "Review drafts") {
		t.Error("rendered body missing header text")
	}
	if !strings.Contains(body, "Reading List") {
		t.Error("backlinks panel missing")
	}
}

func TestViewUnknownNode(t *testing.T) {
	rec := get(t, newTestServer(t), "/nodes/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Something went wrong") {
		t.Error("error page not rendered")
	}
}

func TestViewBadID(t *testing.T) {
	rec := get(t, newTestServer(t), "/nodes/not-a-uuid", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCreateRedirects(t *testing.T) {
	form := url.Values{
		"title":   {"Fresh Note"},
		"format":  {"markdown"},
		"content": {"# hi"},
		"tags":    {"a, b"},
	}
	req := httptest.NewRequest(http.MethodPost, "/nodes", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/nodes/"+nodeID.String() {
		t.Errorf("Location = %q", loc)
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/nodes", strings.NewReader("title="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteHtmxRedirect(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/nodes/"+nodeID.String(), nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("HX-Redirect") != "/" {
		t.Error("HX-Redirect header missing")
	}
}

func TestSearchPartialForHtmx(t *testing.T) {
	rec := get(t, newTestServer(t), "/search?q=plan", map[string]string{"HX-Request": "true"})
	body := rec.Body.String()
	if !strings.Contains(body, "Weekly Plan") {
		t.Error("search hit missing")
	}
	if strings.Contains(body, "<nav") {
		t.Error("htmx partial should not include the full layout")
	}
}

func TestSearchFullPage(t *testing.T) {
	rec := get(t, newTestServer(t), "/search?q=plan", nil)
	body := rec.Body.String()
	if !strings.Contains(body, "<nav") {
		t.Error("full search page should include the layout")
	}
	if !strings.Contains(body, "Weekly Plan") {
		t.Error("search hit missing")
	}
}

func TestTagsPage(t *testing.T) {
	rec := get(t, newTestServer(t), "/tags", nil)
	body := rec.Body.String()
	if !strings.Contains(body, "planning") {
		t.Error("tag missing")
	}
}
