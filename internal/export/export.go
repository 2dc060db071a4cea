// Package export produces JSONL dataset exports with student anonymization.
// Chat interactions feed matcher tuning; identities never leave the store.
package export

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/avashist/campusdesk/internal/db"
)

// ChatRecord is one chat interaction flattened for dataset consumption.
type ChatRecord struct {
	ExportedAt  string `json:"exported_at"`
	Version     string `json:"export_version"`
	Student     string `json:"student"` // anonymized
	QueryText   string `json:"query_text"`
	Language    string `json:"language"`
	BotResponse string `json:"bot_response"`
	FAQID       *int   `json:"faq_id,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// FAQRecord is one FAQ row for dataset consumption. The authoring admin is
// dropped rather than anonymized; only the content matters downstream.
type FAQRecord struct {
	ExportedAt string `json:"exported_at"`
	Version    string `json:"export_version"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	SourceType string `json:"source_type"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

const exportVersion = "1.0"

// Exporter produces JSONL exports from the database.
type Exporter struct {
	database *db.DB
}

func NewExporter(database *db.DB) *Exporter {
	return &Exporter{database: database}
}

// ExportChatLogs writes every chat interaction as JSONL, one record per
// line. Student identities are anonymized per export: the same student maps
// to the same opaque id within one call and to a different one in the next.
func (e *Exporter) ExportChatLogs(w io.Writer) error {
	rows, err := e.database.AllChatLogs()
	if err != nil {
		return fmt.Errorf("reading chat logs: %w", err)
	}

	anon := newAnonMap()
	now := time.Now().UTC().Format(time.RFC3339)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, row := range rows {
		rec := ChatRecord{
			ExportedAt:  now,
			Version:     exportVersion,
			Student:     anon.get(row.StudentID),
			QueryText:   row.QueryText,
			Language:    row.DetectedLanguage,
			BotResponse: row.BotResponse,
			FAQID:       row.FAQID,
			Status:      row.Status,
			CreatedAt:   row.CreatedAt,
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// ExportFAQs writes the full FAQ set as JSONL.
func (e *Exporter) ExportFAQs(w io.Writer) error {
	faqs, err := e.database.ListFAQs()
	if err != nil {
		return fmt.Errorf("reading faqs: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, faq := range faqs {
		rec := FAQRecord{
			ExportedAt: now,
			Version:    exportVersion,
			Question:   faq.Question,
			Answer:     faq.Answer,
			SourceType: faq.SourceType,
			Status:     faq.Status,
			CreatedAt:  faq.CreatedAt,
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// anonMap maps student ids to randomized stable ids within one export.
type anonMap struct {
	mapping map[int]string
	salt    string
}

func newAnonMap() *anonMap {
	salt := make([]byte, 16)
	rand.Read(salt)
	return &anonMap{
		mapping: make(map[int]string),
		salt:    hex.EncodeToString(salt),
	}
}

func (m *anonMap) get(studentID int) string {
	if anon, ok := m.mapping[studentID]; ok {
		return anon
	}
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", m.salt, studentID)))
	anon := "anon_" + hex.EncodeToString(hash[:6])
	m.mapping[studentID] = anon
	return anon
}
