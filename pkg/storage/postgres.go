package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/trend_scout/pkg/config"
)

// Storage persists runs and their stage artifacts in PostgreSQL. It is
// optional: when no database is configured the workflow runs file-only.
type Storage struct {
	db *sql.DB
}

// NewStorage opens the connection and ensures the schema exists.
func NewStorage(cfg config.DBConfig) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id SERIAL PRIMARY KEY,
			topic TEXT,
			report_path TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			id SERIAL PRIMARY KEY,
			run_id INTEGER REFERENCES runs(id),
			kind TEXT NOT NULL,
			filename TEXT,
			content TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// CreateRun records the start of a workflow run.
func (s *Storage) CreateRun() (int, error) {
	var id int
	err := s.db.QueryRow(`INSERT INTO runs DEFAULT VALUES RETURNING id`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// UpdateRunTopic records the topic once the selection stage has produced one.
func (s *Storage) UpdateRunTopic(runID int, topic string) error {
	_, err := s.db.Exec(`UPDATE runs SET topic = $1 WHERE id = $2`, topic, runID)
	return err
}

// UpdateRunReportPath records where the final report was written.
func (s *Storage) UpdateRunReportPath(runID int, path string) error {
	_, err := s.db.Exec(`UPDATE runs SET report_path = $1 WHERE id = $2`, path, runID)
	return err
}

// SaveArtifact stores one stage artifact alongside its on-disk filename.
func (s *Storage) SaveArtifact(runID int, kind, filename, content string) error {
	_, err := s.db.Exec(`
		INSERT INTO artifacts (run_id, kind, filename, content)
		VALUES ($1, $2, $3, $4)`,
		runID, kind, filename, content)
	if err != nil {
		return fmt.Errorf("failed to insert artifact: %w", err)
	}
	return nil
}
