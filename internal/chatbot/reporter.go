package chatbot

import (
	"math"

	"github.com/avashist/campusdesk/internal/db"
)

type DashboardStats struct {
	TotalUsers   int     `json:"total_users"`
	TotalFAQs    int     `json:"total_faqs"`
	SolvedFAQs   int     `json:"solved_faqs"`
	UnsolvedFAQs int     `json:"unsolved_faqs"`
	SuccessRate  float64 `json:"success_rate"`
}

// Report computes dashboard figures from five independent counts, fresh on
// every call. unsolved_faqs sums two different entities (FAQs stuck in
// status=unsolved plus the pending review queue); the legacy dashboard
// folded both into one number and consumers expect that.
func Report(database *db.DB) (*DashboardStats, error) {
	totalUsers, err := database.CountStudents()
	if err != nil {
		return nil, err
	}
	totalFAQs, err := database.CountFAQs()
	if err != nil {
		return nil, err
	}
	solved, err := database.CountFAQsByStatus("solved")
	if err != nil {
		return nil, err
	}
	unsolvedFAQs, err := database.CountFAQsByStatus("unsolved")
	if err != nil {
		return nil, err
	}
	unsolvedQueries, err := database.CountUnsolvedQueries()
	if err != nil {
		return nil, err
	}

	unsolved := unsolvedFAQs + unsolvedQueries
	rate := 0.0
	if total := solved + unsolved; total > 0 {
		rate = math.Round(float64(solved)/float64(total)*100*100) / 100
	}

	return &DashboardStats{
		TotalUsers:   totalUsers,
		TotalFAQs:    totalFAQs,
		SolvedFAQs:   solved,
		UnsolvedFAQs: unsolved,
		SuccessRate:  rate,
	}, nil
}
