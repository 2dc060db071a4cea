package chatbot

import (
	"errors"
	"strings"

	"github.com/avashist/campusdesk/internal/db"
)

// ErrEmptyQuery is returned for blank query text, before any store call.
var ErrEmptyQuery = errors.New("query text cannot be empty")

// Resolver runs the per-query chat workflow against the store.
type Resolver struct {
	db *db.DB
}

func NewResolver(database *db.DB) *Resolver {
	return &Resolver{db: database}
}

// ChatResult is what the student gets back for one query.
type ChatResult struct {
	QueryText   string `json:"query_text"`
	BotResponse string `json:"bot_response"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// Resolve handles one student query: match against the FAQ set, or fall back
// and enqueue for review. fallback is the bot reply for unmatched queries;
// each entry point (HTTP, MCP) keeps its own wording.
//
// Side effects happen in a fixed order: on a miss, the unsolved-query insert
// comes first, then the chat log insert, then the link between the two. None
// of it is transactional; a failure surfaces as-is with whatever rows were
// already written.
func (r *Resolver) Resolve(studentID int, queryText, detectedLanguage, fallback string) (*ChatResult, error) {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return nil, ErrEmptyQuery
	}

	faqs, err := r.db.ListFAQRefs()
	if err != nil {
		return nil, err
	}

	var (
		botResponse string
		status      string
		faqID       *int
		unsolvedID  int
	)
	if faq, ok := Match(queryText, faqs); ok {
		botResponse = faq.Answer
		status = "solved"
		faqID = &faq.ID
	} else {
		botResponse = fallback
		status = "unsolved"
		unsolvedID, err = r.db.InsertUnsolvedQuery(studentID, queryText)
		if err != nil {
			return nil, err
		}
	}

	logID, createdAt, err := r.db.InsertChatLog(db.InsertChatLogInput{
		StudentID:        studentID,
		QueryText:        queryText,
		DetectedLanguage: detectedLanguage,
		BotResponse:      botResponse,
		FAQID:            faqID,
		Status:           status,
	})
	if err != nil {
		return nil, err
	}

	if status == "unsolved" {
		if err := r.db.LinkUnsolvedChatLog(unsolvedID, logID); err != nil {
			return nil, err
		}
	}

	return &ChatResult{
		QueryText:   queryText,
		BotResponse: botResponse,
		Status:      status,
		CreatedAt:   createdAt,
	}, nil
}
