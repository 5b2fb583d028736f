package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marketgap/backend/internal/domain"
)

// Store persists scraped market data and analysis results as JSON files,
// so expensive scraping runs can be replayed offline. Save methods return
// the path of the written file.
type Store struct {
	dir string
}

// NewStore creates a file-backed snapshot store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SaveMarket writes one market's category data to <market>_bestsellers.json.
func (s *Store) SaveMarket(market string, data map[string][]domain.Product) (string, error) {
	path := s.marketPath(market)
	if err := s.writeJSON(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// LoadMarket reads a previously saved market snapshot.
func (s *Store) LoadMarket(market string) (map[string][]domain.Product, error) {
	var data map[string][]domain.Product
	if err := s.readJSON(s.marketPath(market), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// SaveOpportunities writes one analysis run to opportunities_<runID>.json.
func (s *Store) SaveOpportunities(runID string, opportunities map[string][]domain.Opportunity) (string, error) {
	path := s.opportunitiesPath(runID)
	if err := s.writeJSON(path, opportunities); err != nil {
		return "", err
	}
	return path, nil
}

// LoadOpportunities reads a previously saved analysis run.
func (s *Store) LoadOpportunities(runID string) (map[string][]domain.Opportunity, error) {
	var opportunities map[string][]domain.Opportunity
	if err := s.readJSON(s.opportunitiesPath(runID), &opportunities); err != nil {
		return nil, err
	}
	return opportunities, nil
}

func (s *Store) marketPath(market string) string {
	return filepath.Join(s.dir, sanitize(market)+"_bestsellers.json")
}

func (s *Store) opportunitiesPath(runID string) string {
	return filepath.Join(s.dir, "opportunities_"+sanitize(runID)+".json")
}

// sanitize keeps snapshot names from escaping the data directory.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	return strings.ReplaceAll(name, "..", "_")
}

func (s *Store) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

func (s *Store) readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, filepath.Base(path))
		}
		return fmt.Errorf("reading snapshot: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding snapshot %s: %w", filepath.Base(path), err)
	}
	return nil
}
