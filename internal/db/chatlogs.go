package db

import (
	"database/sql"
	"fmt"
)

// ChatLogEntry is the student-facing view of one chat interaction.
type ChatLogEntry struct {
	QueryText   string `json:"query_text"`
	BotResponse string `json:"bot_response"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type InsertChatLogInput struct {
	StudentID        int
	QueryText        string
	DetectedLanguage string
	BotResponse      string
	FAQID            *int
	Status           string
}

// InsertChatLog appends one log row and returns its id and created_at.
func (db *DB) InsertChatLog(input InsertChatLogInput) (int, string, error) {
	lang := input.DetectedLanguage
	if lang == "" {
		lang = "en"
	}
	res, err := db.Exec(`
		INSERT INTO chat_logs (student_id, query_text, detected_language, bot_response, faq_id, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		input.StudentID, input.QueryText, lang, input.BotResponse, input.FAQID, input.Status)
	if err != nil {
		return 0, "", fmt.Errorf("inserting chat log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, "", fmt.Errorf("inserting chat log: %w", err)
	}
	var createdAt string
	if err := db.QueryRow("SELECT created_at FROM chat_logs WHERE id = ?", id).Scan(&createdAt); err != nil {
		return 0, "", fmt.Errorf("inserting chat log: %w", err)
	}
	return int(id), createdAt, nil
}

// ListChatLogs returns a student's full chat history, newest first.
func (db *DB) ListChatLogs(studentID int) ([]ChatLogEntry, error) {
	rows, err := db.Query(`
		SELECT query_text, bot_response, status, created_at
		FROM chat_logs WHERE student_id = ?
		ORDER BY created_at DESC, id DESC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("listing chat logs: %w", err)
	}
	defer rows.Close()

	entries := []ChatLogEntry{}
	for rows.Next() {
		var e ChatLogEntry
		if err := rows.Scan(&e.QueryText, &e.BotResponse, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ChatLogRow is the full chat_logs row, used by the dataset exporter.
type ChatLogRow struct {
	ID               int
	StudentID        int
	QueryText        string
	DetectedLanguage string
	BotResponse      string
	FAQID            *int
	Status           string
	CreatedAt        string
}

// AllChatLogs returns every chat interaction across students, oldest first.
func (db *DB) AllChatLogs() ([]ChatLogRow, error) {
	rows, err := db.Query(`
		SELECT id, student_id, query_text, detected_language, bot_response, faq_id, status, created_at
		FROM chat_logs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing all chat logs: %w", err)
	}
	defer rows.Close()

	logs := []ChatLogRow{}
	for rows.Next() {
		var row ChatLogRow
		var faqID sql.NullInt64
		if err := rows.Scan(&row.ID, &row.StudentID, &row.QueryText, &row.DetectedLanguage,
			&row.BotResponse, &faqID, &row.Status, &row.CreatedAt); err != nil {
			return nil, err
		}
		if faqID.Valid {
			v := int(faqID.Int64)
			row.FAQID = &v
		}
		logs = append(logs, row)
	}
	return logs, rows.Err()
}

// LatestChatLogID finds the most recent log row for (student, query text).
// This value match is the legacy link between an unsolved query and its log
// entry; rows created by the resolver carry an explicit chat_log_id instead.
func (db *DB) LatestChatLogID(studentID int, queryText string) (int, error) {
	var id int
	err := db.QueryRow(`
		SELECT id FROM chat_logs
		WHERE student_id = ? AND query_text = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`, studentID, queryText).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("looking up chat log: %w", err)
	}
	return id, nil
}

// ResolveChatLog patches a log entry in place once its query gains an answer.
func (db *DB) ResolveChatLog(id int, answer string) error {
	res, err := db.Exec(`
		UPDATE chat_logs
		SET bot_response = ?, status = 'solved', updated_at = datetime('now')
		WHERE id = ?`, answer, id)
	if err != nil {
		return fmt.Errorf("resolving chat log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
