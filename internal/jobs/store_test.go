package jobs

import (
	"context"
	"testing"
	"time"

	"clipforge/internal/testsupport"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(testsupport.NewConfig(t))
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record, err := store.Create(ctx, "01JRUN")
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if record.Status != StatusQueued || record.Percent != 0 {
		t.Fatalf("fresh record = %+v, want queued at 0%%", record)
	}

	if err := store.UpdateProgress(ctx, "01JRUN", "normalizing", 30, ""); err != nil {
		t.Fatalf("UpdateProgress() = %v", err)
	}
	record, err = store.Get(ctx, "01JRUN")
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if record.Status != StatusRunning || record.Stage != "normalizing" || record.Percent != 30 {
		t.Fatalf("running record = %+v", record)
	}

	expires := time.Now().UTC().Add(15 * time.Minute).Truncate(time.Millisecond)
	if err := store.MarkPublished(ctx, "01JRUN", "clip_01JRUN.mp4", expires); err != nil {
		t.Fatalf("MarkPublished() = %v", err)
	}
	record, err = store.Get(ctx, "01JRUN")
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if record.Status != StatusPublished || record.Percent != 100 {
		t.Fatalf("published record = %+v", record)
	}
	if record.ArtifactName != "clip_01JRUN.mp4" {
		t.Errorf("artifact = %q", record.ArtifactName)
	}
	if record.ExpiresAt == nil || !record.ExpiresAt.Equal(expires) {
		t.Errorf("expires = %v, want %v", record.ExpiresAt, expires)
	}
	if !record.Terminal() {
		t.Error("published record should be terminal")
	}
}

func TestStoreProgressDoesNotResurrectTerminalRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, "01JDONE"); err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if err := store.MarkFailed(ctx, "01JDONE", "concatenating", "encoder exited 1"); err != nil {
		t.Fatalf("MarkFailed() = %v", err)
	}
	if err := store.UpdateProgress(ctx, "01JDONE", "resolving", 10, ""); err != nil {
		t.Fatalf("UpdateProgress() = %v", err)
	}

	record, err := store.Get(ctx, "01JDONE")
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if record.Status != StatusFailed || record.Stage != "concatenating" {
		t.Fatalf("record = %+v, want failure preserved", record)
	}
	if record.ErrorMessage != "encoder exited 1" {
		t.Errorf("error = %q", record.ErrorMessage)
	}
}

func TestStoreGetMissingReturnsNil(t *testing.T) {
	store := openTestStore(t)
	record, err := store.Get(context.Background(), "01JNOPE")
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if record != nil {
		t.Fatalf("record = %+v, want nil", record)
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"01JA", "01JB", "01JC"} {
		if _, err := store.Create(ctx, id); err != nil {
			t.Fatalf("Create(%s) = %v", id, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	records, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].ID != "01JC" || records[1].ID != "01JB" {
		t.Errorf("order = %s, %s; want newest first", records[0].ID, records[1].ID)
	}
}
