package models

// ErrorType identifies the category of failure recorded on a trial.
type ErrorType string

const (
	// Transport failures from a backend (network, auth, rate limit, empty
	// completion). Trial-scoped: the trial is recorded as failed, the run
	// continues.
	ErrTransport ErrorType = "transport_error"

	// Sender phase produced no usable artifact.
	ErrSenderFailed ErrorType = "sender_failed"

	// Evaluation phase failed for either judge.
	ErrEvaluationFailed ErrorType = "evaluation_failed"

	// Catch-all
	ErrInternal ErrorType = "internal_error"
)

// TrialError is the failure recorded on a TrialRecord. Parse failures are not
// errors: an unrecognized judge completion is recorded as NoAnswer and the
// trial still counts as evaluated.
type TrialError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}
