package knowledge

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"autoreplenish/internal/inventory"

	"github.com/rs/zerolog/log"
)

// historyLine is one JSONL row of the demand history cache.
type historyLine struct {
	ProductID string `json:"sku"`
	inventory.DemandRecord
}

func historyPath(dir, name string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_history.jsonl", name))
}

// LoadHistory appends demand history from a JSONL cache file. A missing file
// is not an error. Rows for products outside the catalog are skipped.
func (s *Store) LoadHistory(dir, name string) (int, error) {
	path := historyPath(dir, name)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to open history: %w", err)
	}
	defer file.Close()

	var rows []historyLine
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var row historyLine
		if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping invalid JSON line in history")
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("error reading history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := 0
	for _, row := range rows {
		if !slices.Contains(s.ids, row.ProductID) {
			log.Warn().Str("sku", row.ProductID).Msg("Skipping history for unknown product")
			continue
		}
		s.history[row.ProductID] = append(s.history[row.ProductID], row.DemandRecord)
		loaded++
	}

	log.Info().Str("file", path).Int("count", loaded).Msg("Loaded demand history")
	return loaded, nil
}

// SaveHistory writes the full demand history to a JSONL cache file via an
// atomic rename.
func (s *Store) SaveHistory(dir, name string) error {
	s.mu.RLock()
	var rows []historyLine
	for _, id := range s.ids {
		for _, r := range s.history[id] {
			rows = append(rows, historyLine{ProductID: id, DemandRecord: r})
		}
	}
	s.mu.RUnlock()

	if len(rows) == 0 {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}

	path := historyPath(dir, name)
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	for _, row := range rows {
		if err := encoder.Encode(row); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename history file: %w", err)
	}

	log.Info().Str("file", path).Int("count", len(rows)).Msg("Demand history saved")
	return nil
}
