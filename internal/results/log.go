// Package results persists trial records as an append-only JSONL log: one
// record per attempted trial, never overwritten.
package results

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"subtext/internal/models"
)

// OutputPath returns the results log path for a sender model key.
func OutputPath(outputsDir, senderModelKey string) string {
	return filepath.Join(outputsDir, fmt.Sprintf("results_%s.jsonl", senderModelKey))
}

// Writer appends trial records to a JSONL log. Appends are serialized with a
// mutex so concurrent trials never produce torn or interleaved records.
type Writer struct {
	mu sync.Mutex
	f  *os.File
}

// NewWriter opens (or creates) the log at path in append mode. Re-running
// against an existing log appends; duplicate records are possible and are not
// deduplicated.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating outputs directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening results log: %w", err)
	}

	return &Writer{f: f}, nil
}

// Append writes one record as a single JSON line.
func (w *Writer) Append(rec models.TrialRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling trial record: %w", err)
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.f.Write(data); err != nil {
		return fmt.Errorf("appending trial record: %w", err)
	}
	return nil
}

// Close closes the underlying log file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

// Load reads all trial records from a JSONL log, skipping blank lines.
func Load(path string) ([]models.TrialRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening results log: %w", err)
	}
	defer f.Close()

	var records []models.TrialRecord

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var rec models.TrialRecord
		if err := json.Unmarshal(text, &rec); err != nil {
			return nil, fmt.Errorf("parsing record at line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading results log: %w", err)
	}

	return records, nil
}
