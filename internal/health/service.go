package health

import (
	"context"
	"database/sql"
	"time"

	"agri-backend/internal/shared/storage/db"
)

// Database states reported by Status.
const (
	DatabaseUp       = "up"
	DatabaseDown     = "down"
	DatabaseDisabled = "disabled"
)

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB          *sql.DB
	PingTimeout time.Duration
}

// NewService constructs a health service. A nil database reports "disabled".
func NewService(database *sql.DB, pingTimeout time.Duration) *Service {
	return &Service{DB: database, PingTimeout: pingTimeout}
}

// Status reports process liveness and database reachability. The process
// stays OK with the database down since recommendations need no storage.
func (s *Service) Status(ctx context.Context) Status {
	if s == nil || s.DB == nil {
		return Status{OK: true, Database: DatabaseDisabled}
	}
	if err := db.Ping(ctx, s.DB, s.PingTimeout); err != nil {
		return Status{OK: true, Database: DatabaseDown}
	}
	return Status{OK: true, Database: DatabaseUp}
}
