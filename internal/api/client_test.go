package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(srv.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestGetNode(t *testing.T) {
	id := uuid.New()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/nodes/"+id.String() {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("method = %q", r.Method)
		}
		json.NewEncoder(w).Encode(Node{ID: id, Title: "Daily Note", Format: "org"})
	}))

	node, err := client.GetNode(context.Background(), id)
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	if node.Title != "Daily Note" {
		t.Errorf("title = %q", node.Title)
	}
}

func TestGetNodeNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no such node"})
	}))

	_, err := client.GetNode(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err is %T, want *Error", err)
	}
	if apiErr.Message != "no such node" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestCreateNode(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/nodes" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		var draft NodeDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if draft.Title != "New" || draft.Format != "markdown" {
			t.Errorf("draft = %+v", draft)
		}
		json.NewEncoder(w).Encode(Node{ID: uuid.New(), Title: draft.Title, Format: draft.Format})
	}))

	node, err := client.CreateNode(context.Background(), NodeDraft{Title: "New", Format: "markdown"})
	if err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	if node.ID == uuid.Nil {
		t.Error("server id not decoded")
	}
}

func TestDeleteNode(t *testing.T) {
	called := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.DeleteNode(context.Background(), uuid.New()); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}
	if !called {
		t.Error("server never called")
	}
}

func TestSearchEscapesQuery(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "a b&c" {
			t.Errorf("q = %q", got)
		}
		json.NewEncoder(w).Encode([]Node{{Title: "hit"}})
	}))

	nodes, err := client.Search(context.Background(), "a b&c")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Title != "hit" {
		t.Errorf("nodes = %+v", nodes)
	}
}

func TestBacklinks(t *testing.T) {
	id := uuid.New()
	other := uuid.New()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/nodes/"+id.String()+"/backlinks" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]NodeRef{{ID: other, Title: "Linker"}})
	}))

	refs, err := client.Backlinks(context.Background(), id)
	if err != nil {
		t.Fatalf("Backlinks failed: %v", err)
	}
	if len(refs) != 1 || refs[0].ID != other {
		t.Errorf("refs = %+v", refs)
	}
}

func TestTags(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Tag{{Name: "project", Count: 3}})
	}))

	tags, err := client.Tags(context.Background())
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	if len(tags) != 1 || tags[0].Count != 3 {
		t.Errorf("tags = %+v", tags)
	}
}

func TestContextCancellation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.ListNodes(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestPlainTextErrorBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.ListNodes(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "boom" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}
