package db

import (
	"database/sql"
	"fmt"
)

type FAQ struct {
	ID         int     `json:"id"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	SourceType string  `json:"source_type"`
	SourceFile *string `json:"source_file"`
	CreatedBy  int     `json:"created_by"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// FAQRef is the slice of an FAQ the matcher needs.
type FAQRef struct {
	ID       int
	Question string
	Answer   string
}

type CreateFAQInput struct {
	Question   string
	Answer     string
	SourceType string
	SourceFile *string
	CreatedBy  int
	Status     string
}

func (db *DB) CreateFAQ(input CreateFAQInput) (*FAQ, error) {
	res, err := db.Exec(`
		INSERT INTO faqs (question, answer, source_type, source_file, created_by, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		input.Question, input.Answer, input.SourceType, input.SourceFile, input.CreatedBy, input.Status)
	if err != nil {
		return nil, fmt.Errorf("creating faq: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating faq: %w", err)
	}
	return db.GetFAQ(int(id))
}

func (db *DB) GetFAQ(id int) (*FAQ, error) {
	f := &FAQ{}
	var sourceFile sql.NullString
	err := db.QueryRow(`
		SELECT id, question, answer, source_type, source_file, created_by, status, created_at, updated_at
		FROM faqs WHERE id = ?`, id).Scan(
		&f.ID, &f.Question, &f.Answer, &f.SourceType, &sourceFile, &f.CreatedBy, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, rowErr(err)
	}
	if sourceFile.Valid {
		f.SourceFile = &sourceFile.String
	}
	return f, nil
}

func (db *DB) ListFAQs() ([]FAQ, error) {
	rows, err := db.Query(`
		SELECT id, question, answer, source_type, source_file, created_by, status, created_at, updated_at
		FROM faqs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing faqs: %w", err)
	}
	defer rows.Close()

	faqs := []FAQ{}
	for rows.Next() {
		var f FAQ
		var sourceFile sql.NullString
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.SourceType, &sourceFile,
			&f.CreatedBy, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		if sourceFile.Valid {
			f.SourceFile = &sourceFile.String
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

// ListFAQRefs returns the full FAQ set in insertion order. The matcher scans
// this linearly; first match wins, so the order is part of the contract.
func (db *DB) ListFAQRefs() ([]FAQRef, error) {
	rows, err := db.Query("SELECT id, question, answer FROM faqs ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing faq refs: %w", err)
	}
	defer rows.Close()

	refs := []FAQRef{}
	for rows.Next() {
		var r FAQRef
		if err := rows.Scan(&r.ID, &r.Question, &r.Answer); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

type FAQUpdate struct {
	Question *string
	Answer   *string
	Status   *string
}

func (db *DB) UpdateFAQ(id int, upd FAQUpdate) (*FAQ, error) {
	set, args := buildSet([]setField{
		{"question", upd.Question},
		{"answer", upd.Answer},
		{"status", upd.Status},
	})
	if set != "" {
		set += ", "
	}
	set += "updated_at = datetime('now')"
	args = append(args, id)
	res, err := db.Exec("UPDATE faqs SET "+set+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("updating faq: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return db.GetFAQ(id)
}

func (db *DB) DeleteFAQ(id int) error {
	res, err := db.Exec("DELETE FROM faqs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting faq: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
