package db

// Dashboard counters. Each is an independent query on purpose: the numbers
// may drift between calls under concurrent writes, matching the legacy
// portal's five separate counting requests.

func (db *DB) CountStudents() (int, error) {
	return db.count("SELECT COUNT(*) FROM students")
}

func (db *DB) CountFAQs() (int, error) {
	return db.count("SELECT COUNT(*) FROM faqs")
}

func (db *DB) CountFAQsByStatus(status string) (int, error) {
	return db.count("SELECT COUNT(*) FROM faqs WHERE status = ?", status)
}

func (db *DB) CountUnsolvedQueries() (int, error) {
	return db.count("SELECT COUNT(*) FROM unsolved_queries")
}

func (db *DB) count(query string, args ...any) (int, error) {
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
