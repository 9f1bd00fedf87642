package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

// ErrNotFound is returned when an update matches no row.
var ErrNotFound = errors.New("record not found")

// Session operations

// SaveSession replaces the stored session.
func (s *Store) SaveSession(session *models.Session) error {
	if session.AccessToken == "" {
		return errors.New("save session: empty access token")
	}
	if session.TokenType == "" {
		session.TokenType = "bearer"
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now().UTC()
	}

	query := `INSERT INTO sessions (id, email, access_token, token_type, created_at)
			  VALUES (1, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET email=excluded.email, access_token=excluded.access_token,
			  token_type=excluded.token_type, created_at=excluded.created_at`
	if _, err := s.db.Exec(query, session.Email, session.AccessToken, session.TokenType, session.CreatedAt); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetSession returns the stored session, or nil when logged out.
func (s *Store) GetSession() (*models.Session, error) {
	query := `SELECT email, access_token, token_type, created_at FROM sessions WHERE id=1`
	session := &models.Session{}
	err := s.db.QueryRow(query).Scan(&session.Email, &session.AccessToken, &session.TokenType, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// DeleteSession forgets the stored session. Deleting twice is not an error.
func (s *Store) DeleteSession() error {
	if _, err := s.db.Exec(`DELETE FROM sessions`); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Upload operations

// CreateUpload records the start of an upload. ID and StartedAt are filled
// in when empty.
func (s *Store) CreateUpload(u *models.Upload) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.StartedAt.IsZero() {
		u.StartedAt = s.now().UTC()
	}

	query := `INSERT INTO uploads (id, filename, content_type, size, status, attempts, message, started_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.Exec(query, u.ID, u.Filename, u.ContentType, u.Size, u.Status, u.Attempts, u.Message, u.StartedAt)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	return nil
}

// FinishUpload stores the final status of an upload.
func (s *Store) FinishUpload(id, status string, attempts int, message string) error {
	query := `UPDATE uploads SET status=?, attempts=?, message=?, finished_at=? WHERE id=?`
	result, err := s.db.Exec(query, status, attempts, message, s.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("finish upload: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish upload: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish upload %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetUploadStatus updates the status of an upload that is still running.
func (s *Store) SetUploadStatus(id, status string) error {
	result, err := s.db.Exec(`UPDATE uploads SET status=? WHERE id=? AND finished_at IS NULL`, status, id)
	if err != nil {
		return fmt.Errorf("set upload status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set upload status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("set upload status %s: %w", id, ErrNotFound)
	}
	return nil
}

// LatestPendingUpload returns the newest upload without a final status, or
// nil.
func (s *Store) LatestPendingUpload() (*models.Upload, error) {
	query := `SELECT id, filename, content_type, size, status, attempts, message, started_at
			  FROM uploads WHERE finished_at IS NULL ORDER BY started_at DESC, rowid DESC LIMIT 1`
	u := &models.Upload{}
	err := s.db.QueryRow(query).Scan(&u.ID, &u.Filename, &u.ContentType, &u.Size, &u.Status,
		&u.Attempts, &u.Message, &u.StartedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest pending upload: %w", err)
	}
	return u, nil
}

// ListUploads returns the most recent uploads first. limit <= 0 means all.
func (s *Store) ListUploads(limit int) ([]*models.Upload, error) {
	query := `SELECT id, filename, content_type, size, status, attempts, message, started_at, finished_at
			  FROM uploads ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	uploads := []*models.Upload{}
	for rows.Next() {
		u := &models.Upload{}
		var finished sql.NullTime
		if err := rows.Scan(&u.ID, &u.Filename, &u.ContentType, &u.Size, &u.Status,
			&u.Attempts, &u.Message, &u.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("list uploads: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			u.FinishedAt = &t
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}
