package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/avashist/campusdesk/internal/db"
)

func TestStudentLoginLadder(t *testing.T) {
	a, mux := newTestAPI(t)
	seedStudent(t, a, "maya@campus.test", "right-pass")

	// Unknown account.
	rr := doJSON(t, mux, http.MethodPost, "/student/login",
		map[string]string{"email": "ghost@campus.test", "password": "x"}, "10.1.0.1")
	wantDetail(t, rr, http.StatusNotFound, "Invalid email or password")

	// Known account, wrong password.
	rr = doJSON(t, mux, http.MethodPost, "/student/login",
		map[string]string{"email": "maya@campus.test", "password": "wrong"}, "10.1.0.1")
	wantDetail(t, rr, http.StatusUnauthorized, "Invalid email or password")

	// Correct credentials.
	rr = doJSON(t, mux, http.MethodPost, "/student/login",
		map[string]string{"email": "maya@campus.test", "password": "right-pass"}, "10.1.0.1")
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rr.Code, rr.Body.String())
	}
	var body map[string]string
	decodeBody(t, rr, &body)
	if body["access_token"] == "" || body["token_type"] != "bearer" {
		t.Errorf("token response = %v", body)
	}
	claims, err := a.auth.ValidateToken(body["access_token"])
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.Role != "student" {
		t.Errorf("token role = %q", claims.Role)
	}
}

func TestStudentLoginInactiveAccount(t *testing.T) {
	a, mux := newTestAPI(t)
	s := seedStudent(t, a, "maya@campus.test", "right-pass")
	inactive := "inactive"
	if _, err := a.db.UpdateStudent(s.ID, db.StudentUpdate{Status: &inactive}); err != nil {
		t.Fatal(err)
	}

	rr := doJSON(t, mux, http.MethodPost, "/student/login",
		map[string]string{"email": "maya@campus.test", "password": "right-pass"}, "10.1.0.2")
	wantDetail(t, rr, http.StatusForbidden, "Account inactive. Contact admin.")
}

func TestStudentChatBlankQuery(t *testing.T) {
	_, mux := newTestAPI(t)

	rr := doJSON(t, mux, http.MethodPost, "/student/chat",
		map[string]interface{}{"student_id": 1, "query_text": "   "}, "")
	wantDetail(t, rr, http.StatusBadRequest, "Query text cannot be empty.")
}

func TestStudentChatMatched(t *testing.T) {
	a, mux := newTestAPI(t)
	if _, err := a.db.CreateFAQ(db.CreateFAQInput{
		Question: "What are the exam dates?", Answer: "Mid-October.",
		SourceType: "manual", CreatedBy: 1, Status: "solved",
	}); err != nil {
		t.Fatal(err)
	}

	rr := doJSON(t, mux, http.MethodPost, "/student/chat",
		map[string]interface{}{"student_id": 5, "query_text": "exam dates"}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var body struct {
		QueryText   string `json:"query_text"`
		BotResponse string `json:"bot_response"`
		Status      string `json:"status"`
		CreatedAt   string `json:"created_at"`
	}
	decodeBody(t, rr, &body)
	if body.Status != "solved" || body.BotResponse != "Mid-October." {
		t.Errorf("chat response = %+v", body)
	}
	if body.CreatedAt == "" {
		t.Error("created_at missing from chat response")
	}
}

func TestStudentChatFallback(t *testing.T) {
	a, mux := newTestAPI(t)

	rr := doJSON(t, mux, http.MethodPost, "/student/chat",
		map[string]interface{}{"student_id": 5, "query_text": "something nobody asked before"}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var body struct {
		BotResponse string `json:"bot_response"`
		Status      string `json:"status"`
	}
	decodeBody(t, rr, &body)
	if body.Status != "unsolved" || body.BotResponse != testFallback {
		t.Errorf("chat response = %+v", body)
	}

	queue, err := a.db.ListUnsolvedQueries()
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 1 {
		t.Errorf("review queue has %d entries, want 1", len(queue))
	}
}

func TestStudentChatHistory(t *testing.T) {
	_, mux := newTestAPI(t)

	rr := doJSON(t, mux, http.MethodGet, "/student/chat/77", nil, "")
	wantDetail(t, rr, http.StatusNotFound, "No chat history found for this student.")

	doJSON(t, mux, http.MethodPost, "/student/chat",
		map[string]interface{}{"student_id": 77, "query_text": "anything"}, "")

	rr = doJSON(t, mux, http.MethodGet, "/student/chat/77", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var entries []db.ChatLogEntry
	decodeBody(t, rr, &entries)
	if len(entries) != 1 || entries[0].QueryText != "anything" {
		t.Errorf("history = %+v", entries)
	}
}

func TestStudentHome(t *testing.T) {
	a, mux := newTestAPI(t)

	rr := doJSON(t, mux, http.MethodGet, "/student/home/99", nil, "")
	wantDetail(t, rr, http.StatusNotFound, "Student not found")

	s := seedStudent(t, a, "maya@campus.test", "pw")
	for _, title := range []string{"first", "second", "third", "fourth"} {
		if _, err := a.db.CreateNews(db.CreateNewsInput{Title: title, Content: "c", CreatedBy: 1}); err != nil {
			t.Fatal(err)
		}
	}

	rr = doJSON(t, mux, http.MethodGet, "/student/home/"+strconv.Itoa(s.ID), nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Name              string    `json:"name"`
		Department        string    `json:"department"`
		EnrollmentNo      string    `json:"enrollment_no"`
		MotivationalQuote string    `json:"motivational_quote"`
		LatestNews        []db.News `json:"latest_news"`
	}
	decodeBody(t, rr, &body)
	if body.Name != "Test Student" || body.Department != "CSE" {
		t.Errorf("home identity = %+v", body)
	}
	if body.MotivationalQuote != testQuote {
		t.Errorf("quote = %q", body.MotivationalQuote)
	}
	if len(body.LatestNews) != 3 {
		t.Errorf("home shows %d news items, want the latest 3", len(body.LatestNews))
	}
}

func TestStudentNewsList(t *testing.T) {
	a, mux := newTestAPI(t)
	if _, err := a.db.CreateNews(db.CreateNewsInput{Title: "t", Content: "c", CreatedBy: 1}); err != nil {
		t.Fatal(err)
	}

	rr := doJSON(t, mux, http.MethodGet, "/student/news", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var news []db.News
	decodeBody(t, rr, &news)
	if len(news) != 1 {
		t.Errorf("news list has %d items, want 1", len(news))
	}
}
