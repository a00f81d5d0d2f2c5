package database

import (
	"log"
)

func (s *SQLStore) Initialize() error {
	log.Printf("Initializing %s database. Initializing Tables", s.driver)
	if err := s.InitTables(); err != nil {
		return err
	}
	log.Printf("Initializing %s database. Initializing Indexes", s.driver)
	return s.InitIndexes()
}

func (s *SQLStore) InitTables() error {
	// records table
	records_table := `
	CREATE TABLE IF NOT EXISTS records (
		id VARCHAR(36) PRIMARY KEY,
		institution_name VARCHAR(512) NOT NULL,
		course_name VARCHAR(512) NOT NULL,
		city VARCHAR(255),
		country VARCHAR(255),
		tuition_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
		semesters INTEGER NOT NULL DEFAULT 1,
		deadline ` + s.dateType() + `,
		status VARCHAR(32) NOT NULL DEFAULT 'not_applied',
		exams TEXT,
		notes TEXT,
		created_at ` + s.timestampType() + ` NOT NULL,
		updated_at ` + s.timestampType() + ` NOT NULL
	);
	`

	_, err := s.db.Exec(records_table)
	return err
}

func (s *SQLStore) InitIndexes() error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_records_deadline ON records (deadline);`,
		`CREATE INDEX IF NOT EXISTS idx_records_course_name ON records (course_name);`,
		`CREATE INDEX IF NOT EXISTS idx_records_created_at ON records (created_at, id);`,
	}
	for _, q := range indexes {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SQLite keeps dates as ISO text so that ordering and scanning match PostgreSQL
func (s *SQLStore) dateType() string {
	if s.driver == DriverPostgres {
		return "DATE"
	}
	return "TEXT"
}

func (s *SQLStore) timestampType() string {
	if s.driver == DriverPostgres {
		return "TIMESTAMPTZ"
	}
	return "TEXT"
}
