// Package testutil provides helpers shared by package tests: temporary git
// repositories with a bare origin, bounded contexts and JSON helpers for
// httptest handlers.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON decodes a request body into T, failing the test on error.
func DecodeJSON[T any](t *testing.T, r *http.Request) T {
	t.Helper()

	var v T
	data, err := io.ReadAll(r.Body)
	if err != nil {
		t.Errorf("read request body: %v", err)
		return v
	}
	if err := json.Unmarshal(data, &v); err != nil {
		t.Errorf("decode request body %q: %v", data, err)
	}
	return v
}

// TempFile creates a temporary file with the given content.
// Returns the file path. File is automatically cleaned up when the test ends.
func TempFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to create temp file %s: %v", name, err)
	}
	return path
}
