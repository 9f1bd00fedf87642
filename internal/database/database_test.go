package database

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

// createTestStore opens a store in a temporary directory with a fixed clock
func createTestStore(t testing.TB) (*Store, *time.Time) {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

// TestSessionLifecycle tests save, replace, get and delete
func TestSessionLifecycle(t *testing.T) {
	store, _ := createTestStore(t)

	session, err := store.GetSession()
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if session != nil {
		t.Fatalf("expected no session, got %+v", session)
	}

	if err := store.SaveSession(&models.Session{Email: "jane@example.com", AccessToken: "token-1"}); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}
	if err := store.SaveSession(&models.Session{Email: "joe@example.com", AccessToken: "token-2"}); err != nil {
		t.Fatalf("failed to replace session: %v", err)
	}

	session, err = store.GetSession()
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if session == nil || session.AccessToken != "token-2" || session.Email != "joe@example.com" {
		t.Fatalf("expected replaced session, got %+v", session)
	}
	if session.TokenType != "bearer" {
		t.Errorf("expected default token type, got %q", session.TokenType)
	}

	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly one session row, got %d", count)
	}

	if err := store.DeleteSession(); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}
	if err := store.DeleteSession(); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	session, err = store.GetSession()
	if err != nil || session != nil {
		t.Errorf("expected no session after delete, got %+v, %v", session, err)
	}
}

// TestSaveSessionRequiresToken tests that empty tokens are refused
func TestSaveSessionRequiresToken(t *testing.T) {
	store, _ := createTestStore(t)

	if err := store.SaveSession(&models.Session{Email: "jane@example.com"}); err == nil {
		t.Error("should have refused a session without a token")
	}
}

// TestUploadLifecycle tests create, finish and list
func TestUploadLifecycle(t *testing.T) {
	store, now := createTestStore(t)

	upload := &models.Upload{
		Filename:    "cv.pdf",
		ContentType: "application/pdf",
		Size:        2048,
		Status:      "processing",
	}
	if err := store.CreateUpload(upload); err != nil {
		t.Fatalf("failed to create upload: %v", err)
	}
	if upload.ID == "" {
		t.Fatal("upload ID not set after creation")
	}
	if !upload.StartedAt.Equal(*now) {
		t.Errorf("expected start time %v, got %v", *now, upload.StartedAt)
	}

	*now = now.Add(8 * time.Second)
	if err := store.FinishUpload(upload.ID, "completed", 4, "Found 12 matches"); err != nil {
		t.Fatalf("failed to finish upload: %v", err)
	}

	uploads, err := store.ListUploads(0)
	if err != nil {
		t.Fatalf("failed to list uploads: %v", err)
	}
	if len(uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(uploads))
	}
	got := uploads[0]
	if got.Status != "completed" || got.Attempts != 4 || got.Message != "Found 12 matches" {
		t.Errorf("finished upload doesn't match: %+v", got)
	}
	if got.Size != 2048 || got.ContentType != "application/pdf" {
		t.Errorf("upload metadata doesn't match: %+v", got)
	}
	if !got.Finished() || !got.FinishedAt.Equal(*now) {
		t.Errorf("expected finish time %v, got %v", *now, got.FinishedAt)
	}
}

// TestFinishUnknownUpload tests that finishing a missing upload fails
func TestFinishUnknownUpload(t *testing.T) {
	store, _ := createTestStore(t)

	err := store.FinishUpload("does-not-exist", "completed", 1, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestPendingUpload tests status updates on a running upload
func TestPendingUpload(t *testing.T) {
	store, now := createTestStore(t)

	pending, err := store.LatestPendingUpload()
	if err != nil || pending != nil {
		t.Fatalf("expected no pending upload, got %+v, %v", pending, err)
	}

	first := &models.Upload{Filename: "old.pdf", ContentType: "application/pdf", Size: 1, Status: "uploading"}
	if err := store.CreateUpload(first); err != nil {
		t.Fatalf("failed to create upload: %v", err)
	}
	*now = now.Add(time.Minute)
	second := &models.Upload{Filename: "new.pdf", ContentType: "application/pdf", Size: 1, Status: "uploading"}
	if err := store.CreateUpload(second); err != nil {
		t.Fatalf("failed to create upload: %v", err)
	}

	if err := store.SetUploadStatus(second.ID, "processing"); err != nil {
		t.Fatalf("failed to set status: %v", err)
	}
	pending, err = store.LatestPendingUpload()
	if err != nil {
		t.Fatalf("failed to get pending upload: %v", err)
	}
	if pending == nil || pending.ID != second.ID || pending.Status != "processing" {
		t.Fatalf("expected newest pending upload, got %+v", pending)
	}

	if err := store.FinishUpload(second.ID, "completed", 3, ""); err != nil {
		t.Fatalf("failed to finish upload: %v", err)
	}
	if err := store.SetUploadStatus(second.ID, "matching"); !errors.Is(err, ErrNotFound) {
		t.Errorf("finished upload should not change status, got %v", err)
	}

	pending, err = store.LatestPendingUpload()
	if err != nil {
		t.Fatalf("failed to get pending upload: %v", err)
	}
	if pending == nil || pending.ID != first.ID {
		t.Errorf("expected the older pending upload, got %+v", pending)
	}
}

// TestListUploadsOrderAndLimit tests newest-first ordering
func TestListUploadsOrderAndLimit(t *testing.T) {
	store, now := createTestStore(t)

	for i := 1; i <= 3; i++ {
		*now = now.Add(time.Minute)
		upload := &models.Upload{
			Filename:    fmt.Sprintf("cv-%d.pdf", i),
			ContentType: "application/pdf",
			Size:        int64(i),
			Status:      "processing",
		}
		if err := store.CreateUpload(upload); err != nil {
			t.Fatalf("failed to create upload %d: %v", i, err)
		}
	}

	uploads, err := store.ListUploads(2)
	if err != nil {
		t.Fatalf("failed to list uploads: %v", err)
	}
	if len(uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(uploads))
	}
	if uploads[0].Filename != "cv-3.pdf" || uploads[1].Filename != "cv-2.pdf" {
		t.Errorf("expected newest first, got %s, %s", uploads[0].Filename, uploads[1].Filename)
	}
	if uploads[0].Finished() {
		t.Error("unfinished upload reported as finished")
	}
}

// TestDuplicateUploadID verifies the primary key holds
func TestDuplicateUploadID(t *testing.T) {
	store, _ := createTestStore(t)

	upload := &models.Upload{ID: "fixed", Filename: "a.pdf", ContentType: "application/pdf", Size: 1, Status: "processing"}
	if err := store.CreateUpload(upload); err != nil {
		t.Fatalf("failed to create upload: %v", err)
	}
	if err := store.CreateUpload(upload); err == nil {
		t.Error("should have failed to create a duplicate upload id")
	}
}

// TestSessionSingleRow verifies the sessions table refuses a second id
func TestSessionSingleRow(t *testing.T) {
	store, _ := createTestStore(t)

	_, err := store.db.Exec(`
		INSERT INTO sessions (id, access_token, created_at) VALUES (2, 'x', CURRENT_TIMESTAMP)
	`)
	if err == nil {
		t.Error("should have failed due to check constraint")
	}
}

// BenchmarkCreateUpload benchmarks upload creation
func BenchmarkCreateUpload(b *testing.B) {
	store, _ := createTestStore(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		upload := &models.Upload{
			Filename:    fmt.Sprintf("cv-%d.pdf", i),
			ContentType: "application/pdf",
			Size:        int64(i + 1),
			Status:      "processing",
		}
		store.CreateUpload(upload)
	}
}
