package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type backend struct {
	mu       sync.Mutex
	posts    []map[string]string
	requests []string
	fail     bool
}

func newBackend(t *testing.T) (*backend, string) {
	t.Helper()
	b := &backend{posts: []map[string]string{
		{"_id": "1", "title": "First post", "content": "Hello there", "author": "Ann", "createdAt": "2024-03-05T10:00:00Z"},
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/blogs", b.collection)
	mux.HandleFunc("/api/blogs/{id}", b.item)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return b, srv.URL
}

func (b *backend) record(r *http.Request) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	line := r.Method
	if id := r.PathValue("id"); id != "" {
		line += " " + id
	}
	b.requests = append(b.requests, line)
	return b.fail
}

func (b *backend) collection(w http.ResponseWriter, r *http.Request) {
	if b.record(r) {
		http.Error(w, "down", http.StatusInternalServerError)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(b.posts)
	case http.MethodPost:
		var p map[string]string
		_ = json.NewDecoder(r.Body).Decode(&p)
		p["_id"] = "2"
		b.posts = append(b.posts, p)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(p)
	}
}

func (b *backend) item(w http.ResponseWriter, r *http.Request) {
	if b.record(r) {
		http.Error(w, "down", http.StatusInternalServerError)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	id := r.PathValue("id")
	for i, p := range b.posts {
		if p["_id"] != id {
			continue
		}
		switch r.Method {
		case http.MethodPut:
			var upd map[string]string
			_ = json.NewDecoder(r.Body).Decode(&upd)
			upd["_id"] = id
			b.posts[i] = upd
			_ = json.NewEncoder(w).Encode(upd)
		case http.MethodDelete:
			b.posts = append(b.posts[:i], b.posts[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
		}
		return
	}
	http.NotFound(w, r)
}

func (b *backend) snapshot() ([]map[string]string, []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]string(nil), b.posts...), append([]string(nil), b.requests...)
}

func runCLI(t *testing.T, apiURL string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-config", "testdata/missing.yaml", "-api", apiURL}, args...)
	code := run(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"No command", nil},
		{"Unknown command", []string{"publish"}},
		{"Unknown flag", []string{"-nope", "list"}},
		{"Show without id", []string{"show"}},
		{"Delete without id", []string{"delete"}},
		{"Update without id", []string{"update", "-title", "x"}},
		{"Create without fields", []string{"create", "-title", "only"}},
	}

	_, url := newBackend(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, _ := runCLI(t, url, tc.args...)
			if code != exitUsage {
				t.Errorf("Expected exit %d, got %d", exitUsage, code)
			}
		})
	}
}

func TestRun_List(t *testing.T) {
	_, url := newBackend(t)

	code, out, errOut := runCLI(t, url, "list")
	if code != exitOK {
		t.Fatalf("Expected exit 0, got %d (%s)", code, errOut)
	}
	for _, want := range []string{"First post", "#1", "Hello there", "by Ann", "2024"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestRun_ListEmpty(t *testing.T) {
	b, url := newBackend(t)
	b.posts = nil

	code, out, _ := runCLI(t, url, "list")
	if code != exitOK {
		t.Fatalf("Expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "No blogs available yet.") {
		t.Errorf("Expected the empty message, got %q", out)
	}
}

func TestRun_BackendDown(t *testing.T) {
	b, url := newBackend(t)
	b.fail = true

	code, _, errOut := runCLI(t, url, "list")
	if code != exitFailed {
		t.Errorf("Expected exit %d, got %d", exitFailed, code)
	}
	if !strings.Contains(errOut, "Failed to fetch blogs") {
		t.Errorf("Expected fetch failure notice, got %q", errOut)
	}
}

func TestRun_Show(t *testing.T) {
	_, url := newBackend(t)

	code, out, _ := runCLI(t, url, "show", "-id", "1")
	if code != exitOK {
		t.Fatalf("Expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "First post") || !strings.Contains(out, "Hello there") {
		t.Errorf("Unexpected output %q", out)
	}

	code, _, errOut := runCLI(t, url, "show", "-id", "404")
	if code != exitFailed {
		t.Errorf("Expected exit %d for a missing post, got %d", exitFailed, code)
	}
	if !strings.Contains(errOut, `"404"`) {
		t.Errorf("Expected the id in the error, got %q", errOut)
	}
}

func TestRun_Create(t *testing.T) {
	b, url := newBackend(t)

	code, _, errOut := runCLI(t, url, "create", "-title", "New", "-content", "Body", "-author", "Bo")
	if code != exitOK {
		t.Fatalf("Expected exit 0, got %d (%s)", code, errOut)
	}
	if !strings.Contains(errOut, "Blog created successfully") {
		t.Errorf("Expected success notice, got %q", errOut)
	}

	posts, requests := b.snapshot()
	if len(posts) != 2 || posts[1]["title"] != "New" || posts[1]["author"] != "Bo" {
		t.Errorf("Unexpected posts %v", posts)
	}
	if strings.Join(requests, ",") != "POST,GET" {
		t.Errorf("Expected create then refresh, got %v", requests)
	}
}

func TestRun_Update(t *testing.T) {
	b, url := newBackend(t)

	code, _, errOut := runCLI(t, url, "update", "-id", "1", "-title", "Renamed")
	if code != exitOK {
		t.Fatalf("Expected exit 0, got %d (%s)", code, errOut)
	}
	if !strings.Contains(errOut, "Blog updated successfully") {
		t.Errorf("Expected success notice, got %q", errOut)
	}

	posts, requests := b.snapshot()
	want := map[string]string{"_id": "1", "title": "Renamed", "content": "Hello there", "author": "Ann"}
	for k, v := range want {
		if posts[0][k] != v {
			t.Errorf("Expected %s=%q, got %q", k, v, posts[0][k])
		}
	}
	if strings.Join(requests, ",") != "GET,PUT 1,GET" {
		t.Errorf("Unexpected requests %v", requests)
	}
}

func TestRun_UpdateToEmpty(t *testing.T) {
	b, url := newBackend(t)

	code, _, _ := runCLI(t, url, "update", "-id", "1", "-author", " ")
	if code != exitUsage {
		t.Errorf("Expected exit %d, got %d", exitUsage, code)
	}
	if _, requests := b.snapshot(); strings.Join(requests, ",") != "GET" {
		t.Errorf("Expected no PUT, got %v", requests)
	}
}

func TestRun_Delete(t *testing.T) {
	b, url := newBackend(t)

	code, _, errOut := runCLI(t, url, "delete", "-id", "1")
	if code != exitOK {
		t.Fatalf("Expected exit 0, got %d (%s)", code, errOut)
	}
	if !strings.Contains(errOut, "Blog deleted successfully") {
		t.Errorf("Expected success notice, got %q", errOut)
	}
	if posts, _ := b.snapshot(); len(posts) != 0 {
		t.Errorf("Expected no posts left, got %v", posts)
	}

	code, _, errOut = runCLI(t, url, "delete", "-id", "1")
	if code != exitFailed {
		t.Errorf("Expected exit %d deleting a missing post, got %d", exitFailed, code)
	}
	if !strings.Contains(errOut, "Failed to delete blog") {
		t.Errorf("Expected failure notice, got %q", errOut)
	}
}
