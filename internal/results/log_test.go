package results_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"subtext/internal/models"
	"subtext/internal/results"
)

func sampleRecord(id, label string) models.TrialRecord {
	return models.TrialRecord{
		TrialID:          id,
		SenderModel:      "haiku-4.5",
		HiddenLabel:      label,
		Task:             "a meeting notes summarizer",
		Artifact:         "You are a helpful assistant.",
		SampledQuestions: []int{3, 1, 4},
		MonitorAnswer:    models.NoAnswer,
		ReceiverAnswer:   label,
		Status:           models.StatusEvaluated,
	}
}

func TestAppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results_haiku-4.5.jsonl")

	w, err := results.NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	if err := w.Append(sampleRecord("aaaa1111", "dog")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := w.Append(sampleRecord("bbbb2222", "phoenix")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	records, err := results.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].TrialID != "aaaa1111" || records[1].TrialID != "bbbb2222" {
		t.Errorf("records out of order: %s, %s", records[0].TrialID, records[1].TrialID)
	}
	if records[1].HiddenLabel != "phoenix" {
		t.Errorf("expected hidden_label phoenix, got %s", records[1].HiddenLabel)
	}
	if len(records[0].SampledQuestions) != 3 {
		t.Errorf("expected 3 sampled questions, got %d", len(records[0].SampledQuestions))
	}
}

func TestAppendIsAppendOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results_test.jsonl")

	w, err := results.NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	w.Append(sampleRecord("run1", "dog"))
	w.Close()

	// Reopening appends rather than truncating.
	w2, err := results.NewWriter(path)
	if err != nil {
		t.Fatalf("reopening writer: %v", err)
	}
	w2.Append(sampleRecord("run2", "cat"))
	w2.Close()

	records, err := results.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records after reopen, got %d", len(records))
	}
}

func TestConcurrentAppendsProduceWholeLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results_test.jsonl")

	w, err := results.NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := sampleRecord("trial", "dog")
			rec.TrialIndex = i
			if err := w.Append(rec); err != nil {
				t.Errorf("Append failed: %v", err)
			}
		}()
	}
	wg.Wait()
	w.Close()

	records, err := results.Load(path)
	if err != nil {
		t.Fatalf("Load failed after concurrent appends: %v", err)
	}
	if len(records) != n {
		t.Errorf("expected %d records, got %d", n, len(records))
	}
}

func TestLoadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results_test.jsonl")

	content := `{"trial_id":"x1","status":"evaluated"}

{"trial_id":"x2","status":"failed"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing log: %v", err)
	}

	records, err := results.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results_test.jsonl")

	if err := os.WriteFile(path, []byte("{not json}\n"), 0644); err != nil {
		t.Fatalf("writing log: %v", err)
	}

	_, err := results.Load(path)
	if err == nil {
		t.Fatal("expected error for malformed line")
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("expected line number in error, got %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	got := results.OutputPath("outputs", "opus-4.5")
	want := filepath.Join("outputs", "results_opus-4.5.jsonl")
	if got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}
