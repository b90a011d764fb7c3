package httpjson

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, 201, map[string]any{"ok": true})

	if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if rec.Code != 201 {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

func TestErrorPayloadShape(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, 404, "club not found")

	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"club not found"}` {
		t.Errorf("body = %s", got)
	}
}

func TestReadRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"a","bogus":1}`))
	if err := Read(r, &dst); err == nil {
		t.Fatal("expected error for unknown field")
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"a"}`))
	if err := Read(r, &dst); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if dst.Name != "a" {
		t.Errorf("Name = %q", dst.Name)
	}
}

func TestReadRejectsOversizeBody(t *testing.T) {
	var dst struct {
		Blob string `json:"blob"`
	}
	body := `{"blob":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))
	if err := Read(r, &dst); err == nil {
		t.Fatal("expected error for oversize body")
	}
}
