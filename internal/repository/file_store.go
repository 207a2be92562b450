package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"RiskPulse/internal/domain/models"
	"RiskPulse/internal/domain/repository"
)

// FileStore implements SnapshotStore on local JSON/HTML files, the format the
// dashboard and email pipeline consume. Writes go through a temp file and
// rename so a crashed run never leaves a half-written snapshot behind.
type FileStore struct {
	mu           sync.RWMutex
	dir          string
	snapshotFile string
	analysisFile string
	reportFile   string
}

// NewFileStore creates the store and its directory.
func NewFileStore(dir, snapshotFile, analysisFile, reportFile string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileStore{
		dir:          dir,
		snapshotFile: snapshotFile,
		analysisFile: analysisFile,
		reportFile:   reportFile,
	}, nil
}

func (s *FileStore) writeAtomic(name string, b []byte) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) writeJSON(name string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return s.writeAtomic(name, b)
}

func (s *FileStore) readJSON(name string, dest interface{}) error {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) SaveSnapshot(_ context.Context, d *models.CollectedData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(s.snapshotFile, d)
}

func (s *FileStore) LoadSnapshot(_ context.Context) (*models.CollectedData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var d models.CollectedData
	if err := s.readJSON(s.snapshotFile, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// analysisDoc is the on-disk shape of analysis.json. Alongside the full
// record list it carries flat per-asset maps so downstream consumers can
// index by asset id without walking the records.
type analysisDoc struct {
	models.Analysis
	Scores          map[string]float64               `json:"scores"`
	Recommendations map[string]models.Recommendation `json:"recommendations"`
}

func (s *FileStore) SaveAnalysis(_ context.Context, a *models.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(s.analysisFile, analysisDoc{
		Analysis:        *a,
		Scores:          a.Scores(),
		Recommendations: a.Recommendations(),
	})
}

func (s *FileStore) LoadAnalysis(_ context.Context) (*models.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var a models.Analysis
	if err := s.readJSON(s.analysisFile, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *FileStore) SaveReport(_ context.Context, html []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAtomic(s.reportFile, html)
}

func (s *FileStore) LoadReport(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, err := os.ReadFile(filepath.Join(s.dir, s.reportFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.reportFile, err)
	}
	return b, nil
}

var _ repository.SnapshotStore = (*FileStore)(nil)
