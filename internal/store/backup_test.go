package store

import (
	"testing"
	"time"

	"github.com/harroway/housemate/internal/database"
	"github.com/harroway/housemate/internal/model"
)

func setupBackupTestDB(t *testing.T) *BackupStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBackupStore(db)
}

func TestBackupLifecycle(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, err := bs.Create("housemate-20260901.db.enc", "backups/housemate-20260901.db.enc")
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if b.Status != model.BackupStatusPending {
		t.Errorf("status = %q, want %q", b.Status, model.BackupStatusPending)
	}

	if err := bs.MarkUploading(b.ID); err != nil {
		t.Fatalf("mark uploading: %v", err)
	}
	if err := bs.MarkCompleted(b.ID, 4096); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	got, err := bs.GetByID(b.ID)
	if err != nil {
		t.Fatalf("get backup: %v", err)
	}
	if got.Status != model.BackupStatusCompleted {
		t.Errorf("status = %q, want %q", got.Status, model.BackupStatusCompleted)
	}
	if got.SizeBytes != 4096 {
		t.Errorf("size_bytes = %d, want 4096", got.SizeBytes)
	}

	latest, err := bs.LatestCompleted()
	if err != nil {
		t.Fatalf("latest completed: %v", err)
	}
	if latest == nil || latest.ID != b.ID {
		t.Errorf("latest completed = %v, want id %d", latest, b.ID)
	}
}

func TestBackupMarkFailed(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, err := bs.Create("bad.db.enc", "backups/bad.db.enc")
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if err := bs.MarkFailed(b.ID, "upload timed out"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	got, err := bs.GetByID(b.ID)
	if err != nil {
		t.Fatalf("get backup: %v", err)
	}
	if got.Status != model.BackupStatusFailed {
		t.Errorf("status = %q, want %q", got.Status, model.BackupStatusFailed)
	}
	if got.ErrorMessage != "upload timed out" {
		t.Errorf("error_message = %q, want %q", got.ErrorMessage, "upload timed out")
	}

	latest, err := bs.LatestCompleted()
	if err != nil {
		t.Fatalf("latest completed: %v", err)
	}
	if latest != nil {
		t.Error("expected no completed backup")
	}
}

func TestBackupDeleteOlderThan(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, err := bs.Create("old.db.enc", "backups/old.db.enc")
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if err := bs.MarkCompleted(b.ID, 100); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	keys, err := bs.DeleteOlderThan(time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("delete older than: %v", err)
	}
	if len(keys) != 1 || keys[0] != "backups/old.db.enc" {
		t.Errorf("keys = %v, want the deleted backup's s3 key", keys)
	}

	remaining, err := bs.List(10)
	if err != nil {
		t.Fatalf("list backups: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("backups = %d, want 0", len(remaining))
	}
}
