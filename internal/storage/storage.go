package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fivec-maps/catalog-import/internal/catalog"
)

// DefaultDataDir is used when the configuration names none.
const DefaultDataDir = "~/.local/share/catalog-import"

// Storage handles persistence of course snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	dataDir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Path returns the snapshot file for semester.
func (s *Storage) Path(semester string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", Slug(semester)))
}

// Slug turns a semester label into a file-name fragment: "Fall 2024" becomes "fall-2024".
func Slug(semester string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(semester)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "all"
	}
	return slug
}

// LoadSnapshot loads the snapshot for semester. A missing file yields an empty snapshot.
func (s *Storage) LoadSnapshot(semester string) (*catalog.Snapshot, error) {
	return ReadSnapshot(s.Path(semester), semester)
}

// ReadSnapshot reads a snapshot file. A missing file yields an empty snapshot for semester.
func ReadSnapshot(path, semester string) (*catalog.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return catalog.NewSnapshot(semester, "", nil), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot catalog.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Courses == nil {
		snapshot.Courses = make([]*catalog.ParsedCourse, 0)
	}
	return &snapshot, nil
}

// SaveSnapshot writes the snapshot to its semester file.
func (s *Storage) SaveSnapshot(snapshot *catalog.Snapshot) (string, error) {
	path := s.Path(snapshot.Semester)
	return path, WriteSnapshot(path, snapshot)
}

// WriteSnapshot writes snapshot to path through a temporary file and rename, so readers
// never see a partial file.
func WriteSnapshot(path string, snapshot *catalog.Snapshot) error {
	snapshot.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting snapshot permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming snapshot: %w", err)
	}
	return nil
}
