package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrStoreUnreadable marks a store that is absent or cannot be decoded.
// Only such stores are recreated empty.
var ErrStoreUnreadable = errors.New("warning store unreadable")

// Backend persists the whole warning mapping at once
type Backend interface {
	Name() string
	Load(ctx context.Context) (map[string]*models.WarningRecord, error)
	Save(ctx context.Context, records map[string]*models.WarningRecord) error
}

// FileBackend keeps the mapping as one JSON object in a single file
type FileBackend struct {
	Path string
}

// NewFileBackend creates a backend for the file at path
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (f *FileBackend) Name() string {
	return "file:" + f.Path
}

// Load reads and decodes the file
func (f *FileBackend) Load(_ context.Context) (map[string]*models.WarningRecord, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", ErrStoreUnreadable, f.Path)
	}
	if err != nil {
		return nil, err
	}

	records := make(map[string]*models.WarningRecord)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrStoreUnreadable, f.Path, err)
	}

	for id, rec := range records {
		if rec == nil {
			delete(records, id)
			continue
		}
		rec.UserID = id
	}
	return records, nil
}

// Save rewrites the file with the full mapping
func (f *FileBackend) Save(_ context.Context, records map[string]*models.WarningRecord) error {
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0644)
}

// MongoBackend keeps one document per user in a collection
type MongoBackend struct {
	db         *Database
	collection string
}

// NewMongoBackend creates a backend over the given collection
func NewMongoBackend(db *Database, collection string) *MongoBackend {
	return &MongoBackend{db: db, collection: collection}
}

func (m *MongoBackend) Name() string {
	return "mongo:" + m.collection
}

// Load reads every document of the collection
func (m *MongoBackend) Load(ctx context.Context) (map[string]*models.WarningRecord, error) {
	col, err := m.db.Collection(m.collection)
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	records := make(map[string]*models.WarningRecord)
	for cursor.Next(ctx) {
		var rec models.WarningRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, err
		}
		records[rec.UserID] = &rec
	}
	return records, cursor.Err()
}

// Save upserts every record in one bulk write
func (m *MongoBackend) Save(ctx context.Context, records map[string]*models.WarningRecord) error {
	if len(records) == 0 {
		return nil
	}

	col, err := m.db.Collection(m.collection)
	if err != nil {
		return err
	}

	writes := make([]mongo.WriteModel, 0, len(records))
	for id, rec := range records {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": id}).
			SetReplacement(rec).
			SetUpsert(true))
	}

	_, err = col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}
