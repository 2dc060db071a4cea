package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avashist/campusdesk/internal/db"
)

type captureLogger struct {
	entries []*Entry
}

func (c *captureLogger) Log(_ context.Context, e *Entry) error { c.entries = append(c.entries, e); return nil }
func (c *captureLogger) LogAsync(e *Entry)                     { c.entries = append(c.entries, e) }
func (c *captureLogger) Close() error                          { return nil }

func TestMiddlewareNilLoggerPassthrough(t *testing.T) {
	called := false
	h := Middleware(nil, "test_action", nil, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))
	if !called {
		t.Error("inner handler not called without a logger")
	}
}

func TestMiddlewareRecordsSuccess(t *testing.T) {
	rec := &captureLogger{}
	h := Middleware(rec, "faq_create", func(*http.Request) string { return "7" },
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/admin/faqs", nil))

	if len(rec.entries) != 1 {
		t.Fatalf("%d entries logged, want 1", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Action != "faq_create" || e.ActorID != "7" {
		t.Errorf("entry = %+v", e)
	}
	if e.Status == "error" || e.Error != "" {
		t.Errorf("success recorded as error: %+v", e)
	}
	if !strings.Contains(e.Parameters, "/admin/faqs") {
		t.Errorf("parameters = %q, want the request path", e.Parameters)
	}
	if e.RequestID == "" {
		t.Error("no request id assigned")
	}
}

func TestMiddlewareRecordsFailure(t *testing.T) {
	rec := &captureLogger{}
	h := Middleware(rec, "faq_delete", nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/admin/faqs/9", nil))

	if len(rec.entries) != 1 {
		t.Fatalf("%d entries logged, want 1", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Status != "error" || e.Error == "" {
		t.Errorf("4xx not recorded as error: %+v", e)
	}
}

func TestSQLiteLoggerRoundTrip(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	logger := NewSQLiteLogger(database.DB)

	if err := logger.Log(context.Background(), &Entry{Action: "sync_action"}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	logger.LogAsync(&Entry{Action: "async_action", Transport: "mcp"})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var n int
	if err := database.QueryRow("SELECT COUNT(*) FROM audit_log").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("%d rows after close, want 2 (async entry not flushed?)", n)
	}

	var transport, status, entryID string
	err = database.QueryRow(
		"SELECT transport, status, entry_id FROM audit_log WHERE action = 'async_action'").
		Scan(&transport, &status, &entryID)
	if err != nil {
		t.Fatal(err)
	}
	if transport != "mcp" {
		t.Errorf("transport = %q, want mcp", transport)
	}
	if status != "success" {
		t.Errorf("status default = %q, want success", status)
	}
	if !strings.HasPrefix(entryID, "aud_") {
		t.Errorf("entry id = %q, want the aud_ prefix", entryID)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	logger := NewSQLiteLogger(database.DB)
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
}
