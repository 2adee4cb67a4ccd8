package warehouse

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"smartsales/internal/common"
	"smartsales/pkg/errors"
)

// Service provides access to the SQLite warehouse file
type Service struct {
	db           *sqlx.DB
	config       Config
	connected    bool
	errorHandler *errors.ErrorHandler
}

// Config holds warehouse connection configuration
type Config struct {
	Path    string
	Timeout time.Duration
}

// NewService creates a new warehouse service
func NewService(config Config) *Service {
	return &Service{
		config:       config,
		errorHandler: errors.GetGlobalErrorHandler(),
	}
}

// NewServiceWithDB wraps an existing connection, used by tests
func NewServiceWithDB(db *sqlx.DB, config Config) *Service {
	return &Service{
		db:           db,
		config:       config,
		connected:    true,
		errorHandler: errors.GetGlobalErrorHandler(),
	}
}

// Connect opens the warehouse database file, creating its directory and
// the file itself when absent.
func (s *Service) Connect() error {
	if s.connected {
		return nil
	}

	cleaned, err := common.CleanPath(s.config.Path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid warehouse path").
			WithContext("path", s.config.Path)
	}

	if err := os.MkdirAll(filepath.Dir(cleaned), common.DirPermissionNormal); err != nil {
		return errors.FileError("failed to create warehouse directory", filepath.Dir(cleaned), err)
	}

	db, err := sqlx.Open("sqlite3", cleaned+"?_foreign_keys=on")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSQLOpen, "failed to open warehouse database").
			WithContext("path", cleaned).
			WithSuggestions(
				"Check that the warehouse directory is writable",
				"Run 'smartsales init' to scaffold the data directories",
			)
	}

	// A single local file; one connection avoids SQLITE_BUSY between the
	// rebuild transaction and any stray reader we open ourselves.
	db.SetMaxOpenConns(1)

	ctx, cancel := s.getContext()
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return errors.Wrap(err, errors.ErrCodeSQLOpen, "failed to ping warehouse database").
			WithContext("path", cleaned).
			AsRecoverable()
	}

	s.db = db
	s.connected = true
	return nil
}

// Close closes the database connection
func (s *Service) Close() error {
	if !s.connected {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeSQLOpen, "failed to close warehouse database")
	}
	s.connected = false
	return nil
}

// EnsureSchema creates the star-schema tables when they do not exist
func (s *Service) EnsureSchema(ctx context.Context) error {
	if !s.connected {
		return errors.New(errors.ErrCodeSQLOpen, "not connected to warehouse").
			WithSuggestions("Call Connect() before using the warehouse")
	}

	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, errors.ErrCodeSchemaCreate, "failed to create warehouse schema").
				WithContext("statement", stmt)
		}
	}
	return nil
}

// TableCount returns the number of rows in a warehouse table
func (s *Service) TableCount(ctx context.Context, table string) (int, error) {
	if !s.connected {
		return 0, errors.New(errors.ErrCodeSQLOpen, "not connected to warehouse")
	}

	var count int
	query := "SELECT COUNT(*) FROM " + table
	if err := s.db.GetContext(ctx, &count, query); err != nil {
		return 0, errors.SQLError("failed to count rows", query, err).
			WithContext("table", table)
	}
	return count, nil
}

// DB returns the underlying database handle
func (s *Service) DB() *sqlx.DB {
	return s.db
}

// ErrorHandler returns the service's error handler
func (s *Service) ErrorHandler() *errors.ErrorHandler {
	return s.errorHandler
}

func (s *Service) getContext() (context.Context, context.CancelFunc) {
	timeout := s.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}
