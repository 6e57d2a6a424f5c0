package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/masayahak/go-order-app/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore persists login sessions in PostgreSQL.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

type sessionRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	Username  string    `gorm:"column:username;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "sessions" }

// Save upserts a session keyed by its id.
func (s *SessionStore) Save(ctx context.Context, session ports.Session) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if session.ID == "" {
		return errors.New("session id is required")
	}
	record := sessionRecord{
		ID:        session.ID,
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "expires_at", "updated_at"}),
		}).
		Create(&record).Error
}

// Get loads a live session. Expired rows are reported as not found.
func (s *SessionStore) Get(ctx context.Context, id string) (ports.Session, error) {
	if err := s.ensureDB(); err != nil {
		return ports.Session{}, err
	}
	var record sessionRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Session{}, ports.ErrSessionNotFound
		}
		return ports.Session{}, err
	}
	if time.Now().After(record.ExpiresAt) {
		return ports.Session{}, ports.ErrSessionNotFound
	}
	return ports.Session{
		ID:        record.ID,
		Username:  record.Username,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Delete revokes a session by id.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "id = ?", id).Error
}

// PurgeExpired removes all expired sessions. Use for housekeeping or cron.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&sessionRecord{})
	return result.RowsAffected, result.Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}
