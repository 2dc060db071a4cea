package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/avashist/campusdesk/internal/auth"
	"github.com/avashist/campusdesk/internal/config"
	"github.com/avashist/campusdesk/internal/db"
)

const (
	testFallback = "I'm not sure about that yet, but our admin will review your question soon."
	testQuote    = "Keep going."
)

func newTestAPI(t *testing.T) (*API, *http.ServeMux) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "campusdesk.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	a := New(database, auth.New("api-test-secret", 60, 120), config.ChatConfig{
		FallbackMessage:   testFallback,
		MotivationalQuote: testQuote,
	})
	mux := http.NewServeMux()
	a.RegisterRoutes(mux)
	return a, mux
}

// doJSON sends a JSON request through the mux. clientIP feeds the login rate
// limiter; tests pass distinct addresses so they cannot starve each other.
func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}, clientIP string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if clientIP != "" {
		req.Header.Set("X-Forwarded-For", clientIP)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

// decodeBody unmarshals without draining the recorder, so tests can still
// inspect the raw body afterwards.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
}

func itoa(n int) string { return strconv.Itoa(n) }

// wantDetail asserts the shared error body shape.
func wantDetail(t *testing.T, rr *httptest.ResponseRecorder, status int, detail string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status = %d, want %d (body %q)", rr.Code, status, rr.Body.String())
	}
	var body struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, rr, &body)
	if body.Detail != detail {
		t.Errorf("detail = %q, want %q", body.Detail, detail)
	}
}

func seedStudent(t *testing.T, a *API, email, password string) *db.Student {
	t.Helper()
	hash, err := a.auth.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.db.CreateStudent(db.CreateStudentInput{
		Name:         "Test Student",
		Email:        email,
		PasswordHash: hash,
		Department:   "CSE",
		EnrollmentNo: "EN001",
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func seedAdmin(t *testing.T, a *API, email, password, role string) *db.Admin {
	t.Helper()
	hash, err := a.auth.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	adm, err := a.db.CreateAdmin(db.CreateAdminInput{
		Name:         "Test Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       "active",
	})
	if err != nil {
		t.Fatal(err)
	}
	return adm
}

func TestRootHealth(t *testing.T) {
	_, mux := newTestAPI(t)

	rr := doJSON(t, mux, http.MethodGet, "/", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body map[string]string
	decodeBody(t, rr, &body)
	if body["message"] == "" {
		t.Error("health check has no message")
	}
}

func TestRootUnknownPath(t *testing.T) {
	_, mux := newTestAPI(t)

	rr := doJSON(t, mux, http.MethodGet, "/nope", nil, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}
