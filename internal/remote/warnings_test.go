package remote

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/models"
)

func TestWarningsHandler(t *testing.T) {
	store, err := database.OpenWarningStore(context.Background(),
		database.NewFileBackend(filepath.Join(t.TempDir(), "warnings.json")))
	if err != nil {
		t.Fatal(err)
	}
	_, _, _ = store.AddWarning(context.Background(), "42", models.WarningEntry{ID: "w1", Count: 4, Reason: "spam"})

	handler := WarningsHandler(store)

	tests := []struct {
		topic     string
		wantCount int
		wantErr   bool
	}{
		{"warnings/42", 4, false},
		{"warnings/7", 0, false},
		{"warnings/", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			data, err := handler(tt.topic, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			rec, ok := data.(models.WarningRecord)
			if !ok {
				t.Fatalf("data = %T, want models.WarningRecord", data)
			}
			if rec.Count != tt.wantCount {
				t.Errorf("count = %d, want %d", rec.Count, tt.wantCount)
			}
		})
	}
}
