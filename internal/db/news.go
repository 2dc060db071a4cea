package db

import (
	"database/sql"
	"fmt"
)

type News struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	CreatedBy int     `json:"created_by"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

type CreateNewsInput struct {
	Title     string
	Content   string
	CreatedBy int
}

func (db *DB) CreateNews(input CreateNewsInput) (*News, error) {
	res, err := db.Exec(`
		INSERT INTO news (title, content, created_by, updated_at)
		VALUES (?, ?, ?, datetime('now'))`,
		input.Title, input.Content, input.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("creating news: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating news: %w", err)
	}
	return db.GetNews(int(id))
}

func (db *DB) GetNews(id int) (*News, error) {
	n := &News{}
	var updated sql.NullString
	err := db.QueryRow(`
		SELECT id, title, content, created_by, created_at, updated_at
		FROM news WHERE id = ?`, id).Scan(
		&n.ID, &n.Title, &n.Content, &n.CreatedBy, &n.CreatedAt, &updated)
	if err != nil {
		return nil, rowErr(err)
	}
	if updated.Valid {
		n.UpdatedAt = &updated.String
	}
	return n, nil
}

func (db *DB) ListNews() ([]News, error) {
	return db.listNews(0)
}

// LatestNews returns the newest entries, capped at limit.
func (db *DB) LatestNews(limit int) ([]News, error) {
	return db.listNews(limit)
}

func (db *DB) listNews(limit int) ([]News, error) {
	q := `
		SELECT id, title, content, created_by, created_at, updated_at
		FROM news ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing news: %w", err)
	}
	defer rows.Close()

	items := []News{}
	for rows.Next() {
		var n News
		var updated sql.NullString
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedBy, &n.CreatedAt, &updated); err != nil {
			return nil, err
		}
		if updated.Valid {
			n.UpdatedAt = &updated.String
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

type NewsUpdate struct {
	Title   *string
	Content *string
}

func (db *DB) UpdateNews(id int, upd NewsUpdate) (*News, error) {
	set, args := buildSet([]setField{
		{"title", upd.Title},
		{"content", upd.Content},
	})
	if set != "" {
		set += ", "
	}
	set += "updated_at = datetime('now')"
	args = append(args, id)
	res, err := db.Exec("UPDATE news SET "+set+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("updating news: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return db.GetNews(id)
}

func (db *DB) DeleteNews(id int) error {
	res, err := db.Exec("DELETE FROM news WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting news: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
