package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"searchconsole-go/pkg/keyword"
	"searchconsole-go/pkg/logger"
)

const settingsFile = "settings.json"

type fileData struct {
	BrandedRules []keyword.Rule `json:"branded_rules"`
	LastSync     time.Time      `json:"last_sync"`
}

// Store persists user settings as a JSON file in the data directory:
// branded-keyword rules and the last cache-warm-up timestamp. Reads go
// to disk every time so external edits are picked up immediately.
type Store struct {
	mu   sync.Mutex
	path string
	log  *logger.Logger
}

func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{
		path: filepath.Join(dataDir, settingsFile),
		log:  logger.GetLogger().WithField("component", "settings"),
	}, nil
}

// BrandedRules implements keyword.RuleProvider. A missing or unreadable
// settings file yields no rules rather than an error; classification
// falls back to non-branded.
func (s *Store) BrandedRules() []keyword.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		s.log.WithError(err).Debug("No branded rules available")
		return nil
	}
	return data.BrandedRules
}

func (s *Store) SetBrandedRules(rules []keyword.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, _ := s.read()
	data.BrandedRules = rules
	return s.write(data)
}

func (s *Store) LastSync() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return time.Time{}, err
	}
	return data.LastSync, nil
}

// SetLastSync records when the last bulk warm-up completed.
func (s *Store) SetLastSync(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, _ := s.read()
	data.LastSync = t
	return s.write(data)
}

func (s *Store) read() (fileData, error) {
	var data fileData
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return data, err
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return fileData{}, fmt.Errorf("corrupt settings file: %w", err)
	}
	return data, nil
}

func (s *Store) write(data fileData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	// Write-then-rename keeps a crash from truncating settings
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
