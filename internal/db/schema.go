package db

const schema = `
CREATE TABLE IF NOT EXISTS students (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    email         TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    department    TEXT NOT NULL,
    enrollment_no TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'student',
    status        TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active','inactive')),
    created_at    TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_students_email ON students(email);

CREATE TABLE IF NOT EXISTS admins (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    email         TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    contact       TEXT,
    role          TEXT NOT NULL DEFAULT 'admin' CHECK(role IN ('admin','super_admin')),
    status        TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active','inactive')),
    created_at    TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_admins_email ON admins(email);
CREATE INDEX IF NOT EXISTS idx_admins_role ON admins(role);

CREATE TABLE IF NOT EXISTS faqs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    question    TEXT NOT NULL,
    answer      TEXT NOT NULL,
    source_type TEXT NOT NULL DEFAULT 'manual' CHECK(source_type IN ('manual','pdf','text')),
    source_file TEXT,
    created_by  INTEGER NOT NULL,
    status      TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending','solved','unsolved')),
    created_at  TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_faqs_status ON faqs(status);
CREATE INDEX IF NOT EXISTS idx_faqs_created ON faqs(created_at);

CREATE TABLE IF NOT EXISTS news (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    title      TEXT NOT NULL,
    content    TEXT NOT NULL,
    created_by INTEGER NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_news_created ON news(created_at);

CREATE TABLE IF NOT EXISTS chat_logs (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    student_id        INTEGER NOT NULL,
    query_text        TEXT NOT NULL,
    detected_language TEXT NOT NULL DEFAULT 'en',
    bot_response      TEXT NOT NULL,
    faq_id            INTEGER REFERENCES faqs(id),
    status            TEXT NOT NULL CHECK(status IN ('solved','unsolved')),
    created_at        TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at        TEXT
);
CREATE INDEX IF NOT EXISTS idx_chat_logs_student ON chat_logs(student_id);
CREATE INDEX IF NOT EXISTS idx_chat_logs_lookup ON chat_logs(student_id, query_text, created_at);

CREATE TABLE IF NOT EXISTS unsolved_queries (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    student_id  INTEGER NOT NULL,
    query_text  TEXT NOT NULL,
    reviewed    INTEGER NOT NULL DEFAULT 0 CHECK(reviewed IN (0,1)),
    chat_log_id INTEGER REFERENCES chat_logs(id),
    created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_unsolved_reviewed ON unsolved_queries(reviewed);
CREATE INDEX IF NOT EXISTS idx_unsolved_created ON unsolved_queries(created_at);

-- Observability: audit trail of admin-side mutations
CREATE TABLE IF NOT EXISTS audit_log (
    entry_id      TEXT PRIMARY KEY,
    timestamp     INTEGER NOT NULL,
    action        TEXT NOT NULL,
    transport     TEXT NOT NULL DEFAULT 'http',
    actor_id      TEXT,
    request_id    TEXT,
    parameters    TEXT,
    error_message TEXT,
    duration_ms   INTEGER,
    status        TEXT NOT NULL DEFAULT 'success'
);
CREATE INDEX IF NOT EXISTS idx_audit_log_time ON audit_log(timestamp);
CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
`
