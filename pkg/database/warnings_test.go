package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

func entry(count int, reason string) models.WarningEntry {
	return models.WarningEntry{
		ID:        fmt.Sprintf("id-%d-%s", count, reason),
		Count:     count,
		Reason:    reason,
		WarnedBy:  "mod-1",
		Timestamp: "2026-10-19T12:00:00Z",
	}
}

func openTemp(t *testing.T) (*WarningStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "warnings.json")
	store, err := OpenWarningStore(context.Background(), NewFileBackend(path))
	if err != nil {
		t.Fatalf("OpenWarningStore() error = %v", err)
	}
	return store, path
}

func TestOpenRecreatesMissingFile(t *testing.T) {
	store, path := openTemp(t)

	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("store file was not recreated: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("recreated file = %q, want {}", data)
	}
}

func TestOpenRecreatesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warnings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := OpenWarningStore(context.Background(), NewFileBackend(path))
	if err != nil {
		t.Fatalf("OpenWarningStore() error = %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}

	data, _ := os.ReadFile(path)
	if string(data) != "{}" {
		t.Errorf("corrupt file should be rewritten as {}, got %q", data)
	}
}

func TestAddWarningAccumulates(t *testing.T) {
	store, _ := openTemp(t)
	ctx := context.Background()

	tests := []struct {
		count      int
		wantBefore int
		wantAfter  int
	}{
		{1, 0, 1},
		{3, 1, 4},
		{2, 4, 6},
	}

	for i, tt := range tests {
		before, rec, err := store.AddWarning(ctx, "user-1", entry(tt.count, fmt.Sprintf("r%d", i)))
		if err != nil {
			t.Fatalf("AddWarning() error = %v", err)
		}
		if before != tt.wantBefore || rec.Count != tt.wantAfter {
			t.Errorf("step %d: before=%d after=%d, want %d/%d", i, before, rec.Count, tt.wantBefore, tt.wantAfter)
		}
		if len(rec.History) != i+1 {
			t.Errorf("step %d: history length = %d, want %d", i, len(rec.History), i+1)
		}
		if rec.Count != rec.HistoryTotal() {
			t.Errorf("step %d: count %d != history total %d", i, rec.Count, rec.HistoryTotal())
		}
	}
}

func TestAddWarningRejectsNonPositive(t *testing.T) {
	store, _ := openTemp(t)

	if _, _, err := store.AddWarning(context.Background(), "user-1", entry(0, "zero")); err == nil {
		t.Error("AddWarning() with count 0 should fail")
	}
	if store.Len() != 0 {
		t.Error("rejected warning must not create a record")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	store, _ := openTemp(t)
	_, _, _ = store.AddWarning(context.Background(), "user-1", entry(1, "spam"))

	rec, ok := store.Get("user-1")
	if !ok {
		t.Fatal("Get() should find user-1")
	}
	rec.History[0].Reason = "mutated"
	rec.Count = 99

	again, _ := store.Get("user-1")
	if again.History[0].Reason != "spam" || again.Count != 1 {
		t.Error("mutating the returned record must not affect the store")
	}
}

func TestRoundTrip(t *testing.T) {
	store, path := openTemp(t)
	ctx := context.Background()

	_, _, _ = store.AddWarning(ctx, "user-1", entry(2, "광고"))
	_, _, _ = store.AddWarning(ctx, "user-2", entry(1, "욕설"))
	_, _, _ = store.AddWarning(ctx, "user-1", entry(5, "도배 \"quoted\""))

	reopened, err := OpenWarningStore(ctx, NewFileBackend(path))
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}

	for _, id := range []string{"user-1", "user-2"} {
		want, _ := store.Get(id)
		got, ok := reopened.Get(id)
		if !ok {
			t.Fatalf("%s missing after reload", id)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s after reload = %+v, want %+v", id, got, want)
		}
	}
	if !reflect.DeepEqual(reopened.UserIDs(), store.UserIDs()) {
		t.Errorf("UserIDs() = %v, want %v", reopened.UserIDs(), store.UserIDs())
	}
}

type failingBackend struct {
	records map[string]*models.WarningRecord
	failing bool
	loadErr error
	saves   int
}

func (f *failingBackend) Name() string { return "failing" }

func (f *failingBackend) Load(context.Context) (map[string]*models.WarningRecord, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.records, nil
}

func (f *failingBackend) Save(context.Context, map[string]*models.WarningRecord) error {
	f.saves++
	if f.failing {
		return fmt.Errorf("disk full")
	}
	return nil
}

func TestAddWarningRollsBackOnSaveFailure(t *testing.T) {
	backend := &failingBackend{records: map[string]*models.WarningRecord{}}
	store, err := OpenWarningStore(context.Background(), backend)
	if err != nil {
		t.Fatal(err)
	}
	_, _, _ = store.AddWarning(context.Background(), "user-1", entry(1, "first"))

	backend.failing = true
	if _, _, err := store.AddWarning(context.Background(), "user-1", entry(2, "second")); err == nil {
		t.Fatal("AddWarning() should surface the save error")
	}
	if _, _, err := store.AddWarning(context.Background(), "user-2", entry(1, "new")); err == nil {
		t.Fatal("AddWarning() should surface the save error")
	}

	rec, _ := store.Get("user-1")
	if rec.Count != 1 || len(rec.History) != 1 {
		t.Errorf("user-1 = %+v, want the pre-failure state", rec)
	}
	if _, ok := store.Get("user-2"); ok {
		t.Error("user-2 should not exist after a failed first warning")
	}
}

func TestOpenLoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		loadErr   error
		wantErr   bool
		wantSaves int
	}{
		{"connection error", fmt.Errorf("server selection timeout"), true, 0},
		{"unreadable store", fmt.Errorf("%w: missing", ErrStoreUnreadable), false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &failingBackend{
				records: map[string]*models.WarningRecord{
					"u1": {UserID: "u1", Count: 4, History: []models.WarningEntry{entry(4, "old")}},
				},
				loadErr: tt.loadErr,
			}

			store, err := OpenWarningStore(context.Background(), backend)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenWarningStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && store != nil {
				t.Error("no store expected when the backend cannot be read")
			}
			if backend.saves != tt.wantSaves {
				t.Errorf("saves = %d, want %d", backend.saves, tt.wantSaves)
			}
		})
	}
}

func TestOpenUnreadableFileIsNotCorrupt(t *testing.T) {
	dir := t.TempDir()
	// a directory cannot be read as a file, which is neither missing nor corrupt
	if _, err := OpenWarningStore(context.Background(), NewFileBackend(dir)); err == nil {
		t.Error("OpenWarningStore() should fail when the path is a directory")
	}
}
