package repository

// Schema lists the idempotent DDL the course store applies at startup.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		course_id BIGSERIAL PRIMARY KEY,
		course_title TEXT NOT NULL,
		course_description TEXT NOT NULL,
		instructor_name TEXT NOT NULL DEFAULT '',
		dept TEXT NOT NULL DEFAULT '',
		duration INTEGER NOT NULL CHECK (duration > 0),
		credit INTEGER NOT NULL CHECK (credit BETWEEN 1 AND 10),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sections (
		section_id BIGSERIAL PRIMARY KEY,
		course_id BIGINT NOT NULL REFERENCES courses (course_id) ON DELETE CASCADE,
		section_title TEXT NOT NULL,
		section_desc TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sections_course ON sections (course_id)`,
	`CREATE TABLE IF NOT EXISTS contents (
		content_id BIGSERIAL PRIMARY KEY,
		section_id BIGINT NOT NULL REFERENCES sections (section_id) ON DELETE CASCADE,
		content_type TEXT NOT NULL CHECK (content_type IN ('VIDEO', 'PDF')),
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contents_section ON contents (section_id)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		assignment_id TEXT PRIMARY KEY,
		course_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		fileno TEXT NOT NULL DEFAULT '',
		resourcelink TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_course ON assignments (course_id)`,
	`CREATE TABLE IF NOT EXISTS student_progress (
		course_id TEXT NOT NULL,
		student_roll_number TEXT NOT NULL,
		student_name TEXT NOT NULL DEFAULT '',
		student_department TEXT NOT NULL DEFAULT '',
		progress_percentage NUMERIC(5,2) NOT NULL DEFAULT 0,
		average_grade TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (course_id, student_roll_number)
	)`,
}
