package db

import (
	"database/sql"
	"fmt"
)

type Admin struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Contact *string `json:"contact,omitempty"`
	Role    string  `json:"role"`
	Status  string  `json:"status"`
}

type CreateAdminInput struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Status       string
}

func (db *DB) CreateAdmin(input CreateAdminInput) (*Admin, error) {
	res, err := db.Exec(`
		INSERT INTO admins (name, email, password_hash, role, status)
		VALUES (?, ?, ?, ?, ?)`,
		input.Name, input.Email, input.PasswordHash, input.Role, input.Status)
	if err != nil {
		return nil, fmt.Errorf("creating admin: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating admin: %w", err)
	}
	return db.GetAdmin(int(id))
}

func (db *DB) GetAdmin(id int) (*Admin, error) {
	return db.getAdmin("id = ?", id)
}

// GetSuperAdmin returns the profile record keyed by role, the way the
// legacy portal located it. With several super_admin rows the first by id
// wins.
func (db *DB) GetSuperAdmin() (*Admin, error) {
	return db.getAdmin("role = 'super_admin'")
}

func (db *DB) getAdmin(where string, args ...any) (*Admin, error) {
	a := &Admin{}
	var contact sql.NullString
	err := db.QueryRow(`
		SELECT id, name, email, contact, role, status
		FROM admins WHERE `+where+` ORDER BY id LIMIT 1`, args...).Scan(
		&a.ID, &a.Name, &a.Email, &contact, &a.Role, &a.Status)
	if err != nil {
		return nil, rowErr(err)
	}
	if contact.Valid {
		a.Contact = &contact.String
	}
	return a, nil
}

// GetAdminByEmail also returns the stored password digest for login checks.
func (db *DB) GetAdminByEmail(email string) (*Admin, string, error) {
	a := &Admin{}
	var contact sql.NullString
	var passwordHash string
	err := db.QueryRow(`
		SELECT id, name, email, password_hash, contact, role, status
		FROM admins WHERE email = ?`, email).Scan(
		&a.ID, &a.Name, &a.Email, &passwordHash, &contact, &a.Role, &a.Status)
	if err != nil {
		return nil, "", rowErr(err)
	}
	if contact.Valid {
		a.Contact = &contact.String
	}
	return a, passwordHash, nil
}

func (db *DB) ListAdmins() ([]Admin, error) {
	rows, err := db.Query(`
		SELECT id, name, email, contact, role, status
		FROM admins ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing admins: %w", err)
	}
	defer rows.Close()

	admins := []Admin{}
	for rows.Next() {
		var a Admin
		var contact sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &contact, &a.Role, &a.Status); err != nil {
			return nil, err
		}
		if contact.Valid {
			a.Contact = &contact.String
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

type AdminUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Contact      *string
	Role         *string
	Status       *string
}

func (db *DB) UpdateAdmin(id int, upd AdminUpdate) (*Admin, error) {
	set, args := buildSet([]setField{
		{"name", upd.Name},
		{"email", upd.Email},
		{"password_hash", upd.PasswordHash},
		{"contact", upd.Contact},
		{"role", upd.Role},
		{"status", upd.Status},
	})
	if set == "" {
		return db.GetAdmin(id)
	}
	args = append(args, id)
	res, err := db.Exec("UPDATE admins SET "+set+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("updating admin: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return db.GetAdmin(id)
}

func (db *DB) DeleteAdmin(id int) error {
	res, err := db.Exec("DELETE FROM admins WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting admin: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
