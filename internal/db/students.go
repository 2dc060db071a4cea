package db

import "fmt"

// Student is the identity record returned to admin endpoints. The password
// digest is never part of this struct; lookups that need it return it
// separately so it cannot leak into a JSON response by accident.
type Student struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	EnrollmentNo string `json:"enrollment_no"`
	Role         string `json:"role"`
	Status       string `json:"status"`
}

type CreateStudentInput struct {
	Name         string
	Email        string
	PasswordHash string
	Department   string
	EnrollmentNo string
}

func (db *DB) CreateStudent(input CreateStudentInput) (*Student, error) {
	res, err := db.Exec(`
		INSERT INTO students (name, email, password_hash, department, enrollment_no, role, status)
		VALUES (?, ?, ?, ?, ?, 'student', 'active')`,
		input.Name, input.Email, input.PasswordHash, input.Department, input.EnrollmentNo)
	if err != nil {
		return nil, fmt.Errorf("creating student: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating student: %w", err)
	}
	return db.GetStudent(int(id))
}

func (db *DB) GetStudent(id int) (*Student, error) {
	s := &Student{}
	err := db.QueryRow(`
		SELECT id, name, email, department, enrollment_no, role, status
		FROM students WHERE id = ?`, id).Scan(
		&s.ID, &s.Name, &s.Email, &s.Department, &s.EnrollmentNo, &s.Role, &s.Status)
	if err != nil {
		return nil, rowErr(err)
	}
	return s, nil
}

// GetStudentByEmail also returns the stored password digest for login checks.
func (db *DB) GetStudentByEmail(email string) (*Student, string, error) {
	s := &Student{}
	var passwordHash string
	err := db.QueryRow(`
		SELECT id, name, email, password_hash, department, enrollment_no, role, status
		FROM students WHERE email = ?`, email).Scan(
		&s.ID, &s.Name, &s.Email, &passwordHash, &s.Department, &s.EnrollmentNo, &s.Role, &s.Status)
	if err != nil {
		return nil, "", rowErr(err)
	}
	return s, passwordHash, nil
}

func (db *DB) ListStudents() ([]Student, error) {
	rows, err := db.Query(`
		SELECT id, name, email, department, enrollment_no, role, status
		FROM students ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	defer rows.Close()

	students := []Student{}
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Department, &s.EnrollmentNo, &s.Role, &s.Status); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// StudentUpdate is a partial update: nil fields are left untouched.
type StudentUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Department   *string
	EnrollmentNo *string
	Status       *string
}

func (db *DB) UpdateStudent(id int, upd StudentUpdate) (*Student, error) {
	set, args := buildSet([]setField{
		{"name", upd.Name},
		{"email", upd.Email},
		{"password_hash", upd.PasswordHash},
		{"department", upd.Department},
		{"enrollment_no", upd.EnrollmentNo},
		{"status", upd.Status},
	})
	if set == "" {
		return db.GetStudent(id)
	}
	args = append(args, id)
	res, err := db.Exec("UPDATE students SET "+set+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("updating student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return db.GetStudent(id)
}

func (db *DB) DeleteStudent(id int) error {
	res, err := db.Exec("DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
