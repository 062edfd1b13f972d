// Package uploads stores attachments downloaded for scanning.
//
// Stored files are named "<unixMillis>-<original name>" so that the storage
// time survives a restart and Sweep can purge expired files.
package uploads

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
)

// StoredFile describes a file kept in the upload directory
type StoredFile struct {
	Path     string
	Name     string
	Size     int64
	SHA256   string
	StoredAt time.Time
}

// Store is a directory of downloaded attachments
type Store struct {
	Dir    string
	client *http.Client
	now    func() time.Time
}

// NewStore creates the directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", dir, err)
	}
	return &Store{
		Dir:    dir,
		client: &http.Client{Timeout: 60 * time.Second},
		now:    time.Now,
	}, nil
}

// Download fetches url and stores the body under name
func (s *Store) Download(ctx context.Context, url, name string) (*StoredFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading %s: status %d", name, resp.StatusCode)
	}
	return s.Save(name, resp.Body)
}

// Save writes r to the directory and hashes it on the way
func (s *Store) Save(name string, r io.Reader) (*StoredFile, error) {
	storedAt := s.now()
	fileName := fmt.Sprintf("%d-%s", storedAt.UnixMilli(), sanitize(name))
	path := filepath.Join(s.Dir, fileName)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(f, hash), r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	logger.Debug(fmt.Sprintf("Archivo guardado: %s (%d bytes)", fileName, size), "Uploads")
	return &StoredFile{
		Path:     path,
		Name:     name,
		Size:     size,
		SHA256:   hex.EncodeToString(hash.Sum(nil)),
		StoredAt: storedAt,
	}, nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	logger.Debug(fmt.Sprintf("Archivo eliminado: %s", filepath.Base(path)), "Uploads")
	return nil
}

// Sweep removes every stored file older than retention and returns how many
// files were removed. Files without a timestamp prefix are left alone.
func (s *Store) Sweep(retention time.Duration) (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-retention)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		storedAt, ok := storedTime(e.Name())
		if !ok || storedAt.After(cutoff) {
			continue
		}
		if err := s.Remove(filepath.Join(s.Dir, e.Name())); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo eliminar %s: %v", e.Name(), err), "Uploads")
			continue
		}
		removed++
	}
	return removed, nil
}

func storedTime(fileName string) (time.Time, bool) {
	prefix, _, found := strings.Cut(fileName, "-")
	if !found {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

func sanitize(name string) string {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "file"
	}
	return name
}
