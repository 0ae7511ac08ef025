package experiment

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"subtext/internal/config"
	"subtext/internal/llm"
	"subtext/internal/models"
	"subtext/internal/results"
)

// Runner drives the full trial grid (hidden label × trial index, task
// round-robin) through sender and evaluator, recording one TrialRecord per
// attempted trial. Trials share no state; a failed trial never aborts the
// run.
type Runner struct {
	cfg       config.Experiment
	suite     config.Suite
	sender    *Sender
	evaluator *Evaluator
	writer    *results.Writer
	logger    *zap.Logger
}

// Summary aggregates the outcome of a run.
type Summary struct {
	Total     int
	Evaluated int
	Failed    int
	Skipped   int
	Cancelled bool
	StartedAt time.Time
	EndedAt   time.Time
}

// Clients bundles the three client roles of a run. Receiver is typically the
// same client as Sender (in-family recipient); Monitor is independent.
type Clients struct {
	Sender   llm.Client
	Monitor  llm.Client
	Receiver llm.Client
}

// New creates a runner. The writer may be nil, in which case records are not
// persisted (single-trial smoke runs).
func New(cfg config.Experiment, suite config.Suite, clients Clients, writer *results.Writer, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:       cfg,
		suite:     suite,
		sender:    NewSender(clients.Sender, cfg.SampleConfig(), logger),
		evaluator: NewEvaluator(clients.Monitor, clients.Receiver, suite.Labels, suite.Questions, cfg.SampleConfig(), logger),
		writer:    writer,
		logger:    logger,
	}
}

type trialSpec struct {
	hiddenLabel string
	task        string
	index       int
}

// Run executes the full grid with bounded concurrency. Cancellation stops
// feeding new trials; trials already in flight finish and are recorded.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	startedAt := time.Now()

	var specs []trialSpec
	for _, label := range r.suite.Labels {
		for i := 0; i < r.cfg.TrialsPerLabel; i++ {
			specs = append(specs, trialSpec{
				hiddenLabel: label,
				task:        r.suite.Tasks[i%len(r.suite.Tasks)],
				index:       i,
			})
		}
	}

	nWorkers := r.cfg.NConcurrentTrials
	if nWorkers > len(specs) {
		nWorkers = len(specs)
	}

	recorded := r.runConcurrent(ctx, specs, nWorkers)

	summary := &Summary{
		Total:     len(specs),
		Skipped:   len(specs) - len(recorded),
		StartedAt: startedAt,
		EndedAt:   time.Now(),
	}
	for _, rec := range recorded {
		switch rec.Status {
		case models.StatusEvaluated:
			summary.Evaluated++
		default:
			summary.Failed++
		}
	}
	if summary.Skipped > 0 {
		summary.Cancelled = true
	}

	r.logger.Info("run complete",
		zap.Int("total", summary.Total),
		zap.Int("evaluated", summary.Evaluated),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped))

	return summary, nil
}

// runConcurrent fans trials out to a bounded worker pool and collects the
// records. Append order in the log may differ from grid order; metrics are
// order-independent.
func (r *Runner) runConcurrent(ctx context.Context, specs []trialSpec, nWorkers int) []models.TrialRecord {
	specChan := make(chan trialSpec) // unbuffered
	recChan := make(chan models.TrialRecord, len(specs))

	var wg sync.WaitGroup

	for i := 0; i < nWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for spec := range specChan {
				rec := r.RunTrial(ctx, spec.hiddenLabel, spec.task, spec.index)

				if r.writer != nil {
					if err := r.writer.Append(rec); err != nil {
						r.logger.Error("appending trial record",
							zap.String("trial_id", rec.TrialID),
							zap.Error(err))
					}
				}

				recChan <- rec
			}
		}()
	}

	// Feeder: stops handing out trials once the context is cancelled.
	go func() {
		defer close(specChan)
		for _, spec := range specs {
			select {
			case <-ctx.Done():
				return
			case specChan <- spec:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(recChan)
	}()

	var recorded []models.TrialRecord
	for rec := range recChan {
		recorded = append(recorded, rec)
	}
	return recorded
}

// RunTrial executes one trial end to end and always returns a record: failed
// trials carry a TrialError and empty answers.
func (r *Runner) RunTrial(ctx context.Context, hiddenLabel, task string, index int) models.TrialRecord {
	startedAt := time.Now()

	trial := &models.Trial{
		ID:          uuid.NewString()[:8],
		HiddenLabel: hiddenLabel,
		Task:        task,
		TrialIndex:  index,
		Status:      models.StatusPending,
	}

	r.logger.Info("trial start",
		zap.String("trial_id", trial.ID),
		zap.String("hidden_label", hiddenLabel),
		zap.Int("trial_index", index))

	// The question subset is fixed before any network call and shared by both
	// judges of this trial.
	rng := rand.New(rand.NewSource(questionSeed(r.cfg.Seed, hiddenLabel, index)))
	trial.SampledQuestions = SampleQuestions(rng, len(r.suite.Questions), r.cfg.QuestionsPerTrial)

	artifact, err := r.sender.Generate(ctx, hiddenLabel, task)
	if err != nil {
		return r.fail(trial, startedAt, models.ErrSenderFailed, err)
	}
	trial.Artifact = artifact
	trial.Status = models.StatusArtifactReady

	monitorGuess, receiverGuess, err := r.evaluator.Evaluate(ctx, artifact, trial.SampledQuestions)
	if err != nil {
		return r.fail(trial, startedAt, models.ErrEvaluationFailed, err)
	}
	trial.MonitorAnswer = monitorGuess
	trial.ReceiverAnswer = receiverGuess
	trial.Status = models.StatusEvaluated

	r.logger.Info("trial complete",
		zap.String("trial_id", trial.ID),
		zap.String("monitor_answer", monitorGuess),
		zap.String("receiver_answer", receiverGuess))

	return trial.Snapshot(r.cfg.SenderModel, r.cfg.MonitorModel, startedAt, nil)
}

func (r *Runner) fail(trial *models.Trial, startedAt time.Time, errType models.ErrorType, err error) models.TrialRecord {
	if llm.IsTransport(err) {
		errType = models.ErrTransport
	}
	trial.Status = models.StatusFailed

	r.logger.Warn("trial failed",
		zap.String("trial_id", trial.ID),
		zap.String("hidden_label", trial.HiddenLabel),
		zap.String("error_type", string(errType)),
		zap.Error(err))

	return trial.Snapshot(r.cfg.SenderModel, r.cfg.MonitorModel, startedAt, &models.TrialError{
		Type:    errType,
		Message: err.Error(),
	})
}

// questionSeed derives a deterministic per-trial seed from the base seed, the
// hidden label and the trial index, so question sampling is reproducible and
// differs across trials.
func questionSeed(base int64, label string, index int) int64 {
	h := fnv.New64a()
	h.Write([]byte(label))
	h.Write([]byte{0})
	h.Write([]byte{byte(index), byte(index >> 8), byte(index >> 16), byte(index >> 24)})
	return base ^ int64(h.Sum64())
}
