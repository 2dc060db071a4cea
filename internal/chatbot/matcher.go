// Package chatbot holds the query-resolution core: the FAQ matcher, the
// student chat workflow, the admin escalation saga and the dashboard
// reporter.
package chatbot

import (
	"strings"

	"github.com/avashist/campusdesk/internal/db"
)

// Match scans the FAQ set in store order and returns the first FAQ whose
// question contains the query as a case-insensitive substring.
//
// The direction matters: the query must appear inside the question
// ("wifi" matches "How do I get WiFi access?"), a query that is a
// superstring of a question never matches. Deliberately a linear scan; the FAQ set is small
// and this is not a hot path.
func Match(query string, faqs []db.FAQRef) (db.FAQRef, bool) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return db.FAQRef{}, false
	}
	for _, faq := range faqs {
		if strings.Contains(strings.ToLower(faq.Question), needle) {
			return faq, true
		}
	}
	return db.FAQRef{}, false
}
