package chatbot

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/avashist/campusdesk/internal/db"
)

const testFallback = "I'm not sure about that yet, but our admin will review your question soon."

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "campusdesk.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func seedFAQ(t *testing.T, database *db.DB, question, answer, status string) *db.FAQ {
	t.Helper()
	faq, err := database.CreateFAQ(db.CreateFAQInput{
		Question:   question,
		Answer:     answer,
		SourceType: "manual",
		CreatedBy:  1,
		Status:     status,
	})
	if err != nil {
		t.Fatalf("seeding faq: %v", err)
	}
	return faq
}

func TestResolveMatched(t *testing.T) {
	database := newTestDB(t)
	seedFAQ(t, database, "What are the library hours?", "9am to 8pm on weekdays.", "solved")
	r := NewResolver(database)

	res, err := r.Resolve(7, "library hours", "en", testFallback)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != "solved" {
		t.Errorf("status = %q, want solved", res.Status)
	}
	if res.BotResponse != "9am to 8pm on weekdays." {
		t.Errorf("bot response = %q, want the FAQ answer", res.BotResponse)
	}
	if res.CreatedAt == "" {
		t.Error("created_at not populated")
	}

	// A hit logs the interaction but never touches the review queue.
	queue, err := database.ListUnsolvedQueries()
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 0 {
		t.Errorf("review queue has %d entries after a matched query, want 0", len(queue))
	}
	logs, err := database.ListChatLogs(7)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("chat history has %d entries, want 1", len(logs))
	}
	if logs[0].Status != "solved" {
		t.Errorf("logged status = %q, want solved", logs[0].Status)
	}
}

func TestResolveUnmatched(t *testing.T) {
	database := newTestDB(t)
	seedFAQ(t, database, "Hostel allotment process", "Apply at the office.", "solved")
	r := NewResolver(database)

	res, err := r.Resolve(3, "when does the semester start?", "", testFallback)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != "unsolved" {
		t.Errorf("status = %q, want unsolved", res.Status)
	}
	if res.BotResponse != testFallback {
		t.Errorf("bot response = %q, want the fallback message", res.BotResponse)
	}

	queue, err := database.ListUnsolvedQueries()
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 1 {
		t.Fatalf("review queue has %d entries, want 1", len(queue))
	}
	q := queue[0]
	if q.StudentID != 3 || q.QueryText != "when does the semester start?" {
		t.Errorf("queued entry = %+v, want the student's query", q)
	}
	if q.Reviewed {
		t.Error("fresh queue entry marked reviewed")
	}
	if q.ChatLogID == nil {
		t.Fatal("queue entry not linked to its chat log")
	}

	logs, err := database.ListChatLogs(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("chat history has %d entries, want 1", len(logs))
	}
	if logs[0].BotResponse != testFallback || logs[0].Status != "unsolved" {
		t.Errorf("logged entry = %+v, want fallback/unsolved", logs[0])
	}
}

func TestResolveBlankQuery(t *testing.T) {
	database := newTestDB(t)
	r := NewResolver(database)

	_, err := r.Resolve(1, "   ", "en", testFallback)
	if !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}

	// Rejected before any write.
	logs, err := database.ListChatLogs(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 0 {
		t.Errorf("blank query left %d chat log rows", len(logs))
	}
}

func TestResolveTrimsQueryBeforeLogging(t *testing.T) {
	database := newTestDB(t)
	r := NewResolver(database)

	res, err := r.Resolve(2, "  where is block C?  ", "en", testFallback)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.QueryText != "where is block C?" {
		t.Errorf("query text = %q, want trimmed", res.QueryText)
	}
	queue, err := database.ListUnsolvedQueries()
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 1 || queue[0].QueryText != "where is block C?" {
		t.Errorf("queued text = %+v, want trimmed query", queue)
	}
}

func TestResolveRepeatedMissQueuesEachTime(t *testing.T) {
	database := newTestDB(t)
	r := NewResolver(database)

	for i := 0; i < 2; i++ {
		if _, err := r.Resolve(9, "unknown thing", "en", testFallback); err != nil {
			t.Fatalf("Resolve #%d: %v", i+1, err)
		}
	}

	queue, err := database.ListUnsolvedQueries()
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 2 {
		t.Fatalf("review queue has %d entries, want 2 (no dedup)", len(queue))
	}
	// Each entry links its own log row.
	if queue[0].ChatLogID == nil || queue[1].ChatLogID == nil {
		t.Fatal("queue entries missing chat log links")
	}
	if *queue[0].ChatLogID == *queue[1].ChatLogID {
		t.Error("both queue entries link the same chat log row")
	}
}
