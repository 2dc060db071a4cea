package db

import (
	"database/sql"
	"fmt"
)

type UnsolvedQuery struct {
	ID        int    `json:"id"`
	StudentID int    `json:"student_id"`
	QueryText string `json:"query_text"`
	Reviewed  bool   `json:"reviewed"`
	ChatLogID *int   `json:"chat_log_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (db *DB) InsertUnsolvedQuery(studentID int, queryText string) (int, error) {
	res, err := db.Exec(`
		INSERT INTO unsolved_queries (student_id, query_text, reviewed)
		VALUES (?, ?, 0)`, studentID, queryText)
	if err != nil {
		return 0, fmt.Errorf("inserting unsolved query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting unsolved query: %w", err)
	}
	return int(id), nil
}

// LinkUnsolvedChatLog records which chat log row the unsolved query came
// from, so escalation does not have to reconstruct the link by value.
func (db *DB) LinkUnsolvedChatLog(id, chatLogID int) error {
	_, err := db.Exec("UPDATE unsolved_queries SET chat_log_id = ? WHERE id = ?", chatLogID, id)
	if err != nil {
		return fmt.Errorf("linking unsolved query: %w", err)
	}
	return nil
}

func (db *DB) GetUnsolvedQuery(id int) (*UnsolvedQuery, error) {
	q := &UnsolvedQuery{}
	var reviewed int
	var chatLogID sql.NullInt64
	err := db.QueryRow(`
		SELECT id, student_id, query_text, reviewed, chat_log_id, created_at
		FROM unsolved_queries WHERE id = ?`, id).Scan(
		&q.ID, &q.StudentID, &q.QueryText, &reviewed, &chatLogID, &q.CreatedAt)
	if err != nil {
		return nil, rowErr(err)
	}
	q.Reviewed = reviewed != 0
	if chatLogID.Valid {
		v := int(chatLogID.Int64)
		q.ChatLogID = &v
	}
	return q, nil
}

// ListUnsolvedQueries returns the review queue: unreviewed items, newest
// first.
func (db *DB) ListUnsolvedQueries() ([]UnsolvedQuery, error) {
	rows, err := db.Query(`
		SELECT id, student_id, query_text, reviewed, chat_log_id, created_at
		FROM unsolved_queries WHERE reviewed = 0
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing unsolved queries: %w", err)
	}
	defer rows.Close()

	queries := []UnsolvedQuery{}
	for rows.Next() {
		var q UnsolvedQuery
		var reviewed int
		var chatLogID sql.NullInt64
		if err := rows.Scan(&q.ID, &q.StudentID, &q.QueryText, &reviewed, &chatLogID, &q.CreatedAt); err != nil {
			return nil, err
		}
		q.Reviewed = reviewed != 0
		if chatLogID.Valid {
			v := int(chatLogID.Int64)
			q.ChatLogID = &v
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

func (db *DB) SetUnsolvedReviewed(id int, reviewed bool) error {
	val := 0
	if reviewed {
		val = 1
	}
	res, err := db.Exec("UPDATE unsolved_queries SET reviewed = ? WHERE id = ?", val, id)
	if err != nil {
		return fmt.Errorf("updating unsolved query: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeleteUnsolvedQuery(id int) error {
	res, err := db.Exec("DELETE FROM unsolved_queries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting unsolved query: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
