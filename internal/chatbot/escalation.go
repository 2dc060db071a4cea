package chatbot

import (
	"errors"

	"github.com/avashist/campusdesk/internal/db"
)

// defaultEscalationAnswer is used when the admin marks a query solved
// without typing an answer.
const defaultEscalationAnswer = "Answer added by admin"

// systemAdminID is the created_by stamped on FAQs minted by escalation. The
// legacy portal hardcoded this instead of attributing the acting admin;
// kept as-is so escalation-born FAQs stay recognizably system-authored.
const systemAdminID = 1

type EscalationInput struct {
	Reviewed bool
	Solved   bool
	Answer   string
}

type EscalationResult struct {
	Message string `json:"message"`
	Linked  bool   `json:"linked_to_student_chat"`
}

// Escalate closes out an unsolved query. The reviewed flag is always
// applied. When solved, a saga mints a new FAQ from the query, patches the
// student's chat history (in place when the originating log entry is known,
// appended otherwise) and removes the queue entry.
func (r *Resolver) Escalate(id int, input EscalationInput) (*EscalationResult, error) {
	q, err := r.db.GetUnsolvedQuery(id)
	if err != nil {
		return nil, err
	}

	if err := r.db.SetUnsolvedReviewed(id, input.Reviewed); err != nil {
		return nil, err
	}

	if !input.Solved {
		return &EscalationResult{Message: "Query marked as reviewed", Linked: false}, nil
	}

	answer := input.Answer
	if answer == "" {
		answer = defaultEscalationAnswer
	}

	var mintedFAQ *db.FAQ
	steps := []sagaStep{
		{
			name: "mint_faq",
			run: func() error {
				faq, err := r.db.CreateFAQ(db.CreateFAQInput{
					Question:   q.QueryText,
					Answer:     answer,
					SourceType: "text",
					CreatedBy:  systemAdminID,
					Status:     "solved",
				})
				if err != nil {
					return err
				}
				mintedFAQ = faq
				return nil
			},
			compensate: func() error {
				return r.db.DeleteFAQ(mintedFAQ.ID)
			},
		},
		{
			name: "backfill_chat",
			run: func() error {
				return r.backfillChat(q, answer)
			},
			// The previous bot response is not kept; an overwrite cannot
			// be undone.
			compensate: nil,
		},
		{
			name: "dequeue",
			run: func() error {
				return r.db.DeleteUnsolvedQuery(id)
			},
		},
	}

	if err := runSaga("escalation", steps); err != nil {
		return nil, err
	}

	return &EscalationResult{
		Message: "Query solved, added to FAQs, and student chat updated.",
		Linked:  true,
	}, nil
}

// backfillChat updates the chat log entry the unsolved query came from.
// Rows created by the resolver carry the originating log id; older rows fall
// back to the most recent (student_id, query_text) match, which is ambiguous
// when the same student repeated the same query. With no entry at all, a
// fresh solved entry is appended.
func (r *Resolver) backfillChat(q *db.UnsolvedQuery, answer string) error {
	logID := 0
	if q.ChatLogID != nil {
		logID = *q.ChatLogID
	} else {
		id, err := r.db.LatestChatLogID(q.StudentID, q.QueryText)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return err
		}
		logID = id
	}

	if logID != 0 {
		err := r.db.ResolveChatLog(logID, answer)
		if err == nil || !errors.Is(err, db.ErrNotFound) {
			return err
		}
		// Linked entry vanished; fall through and append instead.
	}

	_, _, err := r.db.InsertChatLog(db.InsertChatLogInput{
		StudentID:   q.StudentID,
		QueryText:   q.QueryText,
		BotResponse: answer,
		Status:      "solved",
	})
	return err
}
