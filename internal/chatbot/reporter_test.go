package chatbot

import (
	"fmt"
	"testing"

	"github.com/avashist/campusdesk/internal/db"
)

func TestReportEmptyStore(t *testing.T) {
	database := newTestDB(t)

	stats, err := Report(database)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if stats.TotalUsers != 0 || stats.TotalFAQs != 0 || stats.SolvedFAQs != 0 || stats.UnsolvedFAQs != 0 {
		t.Errorf("stats = %+v, want all zero", stats)
	}
	if stats.SuccessRate != 0 {
		t.Errorf("success rate = %v on an empty store, want 0", stats.SuccessRate)
	}
}

func TestReportCombinesQueueWithUnsolvedFAQs(t *testing.T) {
	database := newTestDB(t)

	for i := 0; i < 2; i++ {
		if _, err := database.CreateStudent(db.CreateStudentInput{
			Name:         fmt.Sprintf("Student %d", i),
			Email:        fmt.Sprintf("s%d@campus.test", i),
			PasswordHash: "x",
			Department:   "CSE",
			EnrollmentNo: fmt.Sprintf("EN%03d", i),
		}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 15; i++ {
		seedFAQ(t, database, fmt.Sprintf("solved q%d", i), "a", "solved")
	}
	for i := 0; i < 5; i++ {
		seedFAQ(t, database, fmt.Sprintf("stuck q%d", i), "a", "unsolved")
	}
	for i := 0; i < 3; i++ {
		if _, err := database.InsertUnsolvedQuery(1, fmt.Sprintf("pending q%d", i)); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := Report(database)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("total users = %d, want 2", stats.TotalUsers)
	}
	if stats.TotalFAQs != 20 {
		t.Errorf("total FAQs = %d, want 20", stats.TotalFAQs)
	}
	if stats.SolvedFAQs != 15 {
		t.Errorf("solved = %d, want 15", stats.SolvedFAQs)
	}
	// 5 unsolved FAQs plus 3 queue entries fold into one number.
	if stats.UnsolvedFAQs != 8 {
		t.Errorf("unsolved = %d, want 8", stats.UnsolvedFAQs)
	}
	// 15 / (15 + 8) = 65.217..., rounded to two decimals.
	if stats.SuccessRate != 65.22 {
		t.Errorf("success rate = %v, want 65.22", stats.SuccessRate)
	}
}

func TestReportIgnoresPendingFAQs(t *testing.T) {
	database := newTestDB(t)

	seedFAQ(t, database, "awaiting review", "a", "pending")
	seedFAQ(t, database, "done", "a", "solved")

	stats, err := Report(database)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if stats.TotalFAQs != 2 {
		t.Errorf("total FAQs = %d, want 2", stats.TotalFAQs)
	}
	// Pending rows count toward the total but neither bucket of the rate.
	if stats.SolvedFAQs != 1 || stats.UnsolvedFAQs != 0 {
		t.Errorf("solved/unsolved = %d/%d, want 1/0", stats.SolvedFAQs, stats.UnsolvedFAQs)
	}
	if stats.SuccessRate != 100 {
		t.Errorf("success rate = %v, want 100", stats.SuccessRate)
	}
}
