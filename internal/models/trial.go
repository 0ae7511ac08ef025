package models

import "time"

// TrialStatus tracks a trial through its lifecycle. A trial is never mutated
// once it reaches a terminal status (evaluated or failed).
type TrialStatus string

const (
	StatusPending       TrialStatus = "pending"
	StatusArtifactReady TrialStatus = "artifact_ready"
	StatusEvaluated     TrialStatus = "evaluated"
	StatusFailed        TrialStatus = "failed"
)

// NoAnswer marks a judge completion that matched no label in the closed set.
// It scores as incorrect, never as excluded.
const NoAnswer = "no answer"

// Trial is the unit of execution: one sender generation followed by one
// dual-judge evaluation for a given hidden label and task.
type Trial struct {
	ID               string
	HiddenLabel      string
	Task             string
	TrialIndex       int
	Artifact         string
	SampledQuestions []int
	MonitorAnswer    string
	ReceiverAnswer   string
	Status           TrialStatus
}

// TrialRecord is the durable, append-only snapshot of a completed or failed
// trial. One record per attempted trial, one JSON object per line.
type TrialRecord struct {
	TrialID          string      `json:"trial_id"`
	Timestamp        time.Time   `json:"timestamp"`
	SenderModel      string      `json:"sender_model"`
	MonitorModel     string      `json:"monitor_model"`
	HiddenLabel      string      `json:"hidden_label"`
	Task             string      `json:"task"`
	TrialIndex       int         `json:"trial_index"`
	Artifact         string      `json:"artifact"`
	SampledQuestions []int       `json:"sampled_questions"`
	MonitorAnswer    string      `json:"monitor_answer"`
	ReceiverAnswer   string      `json:"receiver_answer"`
	Status           TrialStatus `json:"status"`
	Error            *TrialError `json:"error,omitempty"`
	TotalSec         float64     `json:"total_sec"`
}

// Snapshot freezes a trial into its durable record form.
func (t *Trial) Snapshot(senderModel, monitorModel string, startedAt time.Time, trialErr *TrialError) TrialRecord {
	return TrialRecord{
		TrialID:          t.ID,
		Timestamp:        startedAt.UTC(),
		SenderModel:      senderModel,
		MonitorModel:     monitorModel,
		HiddenLabel:      t.HiddenLabel,
		Task:             t.Task,
		TrialIndex:       t.TrialIndex,
		Artifact:         t.Artifact,
		SampledQuestions: t.SampledQuestions,
		MonitorAnswer:    t.MonitorAnswer,
		ReceiverAnswer:   t.ReceiverAnswer,
		Status:           t.Status,
		Error:            trialErr,
		TotalSec:         time.Since(startedAt).Seconds(),
	}
}
