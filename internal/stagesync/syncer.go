package stagesync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"avtranscribe/internal/logging"
	"avtranscribe/internal/services"
	"avtranscribe/internal/stage"
)

// Outcome is the terminal state of one transfer.
type Outcome string

const (
	OutcomeUploaded Outcome = "UPLOADED"
	OutcomeSkipped  Outcome = "SKIPPED"
	OutcomeFailed   Outcome = "FAILED"
)

// Result records the outcome of one transfer.
type Result struct {
	File    LocalFile
	Outcome Outcome
	Err     error
	Elapsed time.Duration
}

// Summary aggregates a run.
type Summary struct {
	Stage        string
	Directory    string
	Plan         Plan
	Results      []Result
	Uploaded     int
	Skipped      int
	Failed       int
	LocalMissing bool
	// RemoteTotal is the stage object count after transfers; it is only
	// meaningful when RemoteTotalKnown is set.
	RemoteTotal      int
	RemoteTotalKnown bool
}

// Attempted returns the number of transfers issued.
func (s Summary) Attempted() int {
	return s.Uploaded + s.Skipped + s.Failed
}

// Observer receives progress callbacks during a run. Calls happen on the
// goroutine running Run.
type Observer interface {
	PlanReady(plan Plan)
	TransferStarted(index, total int, file LocalFile)
	TransferFinished(index, total int, result Result)
}

type nopObserver struct{}

func (nopObserver) PlanReady(Plan)                      {}
func (nopObserver) TransferStarted(int, int, LocalFile) {}
func (nopObserver) TransferFinished(int, int, Result)   {}

// Option customises the Syncer.
type Option func(*Syncer)

// WithObserver registers progress callbacks.
func WithObserver(observer Observer) Option {
	return func(s *Syncer) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// WithClock overrides the time source used for transfer timings.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) {
		if now != nil {
			s.now = now
		}
	}
}

// Syncer uploads missing media files to a stage.
type Syncer struct {
	stage    stage.Stage
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// NewSyncer binds a syncer to st.
func NewSyncer(st stage.Stage, logger *slog.Logger, opts ...Option) *Syncer {
	s := &Syncer{
		stage:    st,
		logger:   logging.NewComponentLogger(logger, "stagesync"),
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one upload pass over dir. Only context cancellation aborts the
// run early; all other failures are folded into the summary.
func (s *Syncer) Run(ctx context.Context, dir string) (Summary, error) {
	ctx = services.WithStage(ctx, s.stage.Name())
	logger := logging.WithContext(ctx, s.logger)
	summary := Summary{Stage: s.stage.Name(), Directory: dir}

	local, err := ScanLocal(dir)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			logger.Warn("source directory not found", logging.String("dir", dir))
			summary.LocalMissing = true
			return summary, nil
		}
		logger.Warn("source directory unreadable", logging.String("dir", dir), logging.Error(err))
		summary.LocalMissing = true
		return summary, nil
	}
	logger.Info("scanned source directory", logging.String("dir", dir), logging.Int("files", len(local)))
	if len(local) == 0 {
		summary.Plan = Plan{RemoteListed: false}
		return summary, nil
	}

	remote := map[string]struct{}{}
	listed := true
	objects, err := s.stage.List(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return summary, ctxErr
		}
		logger.Warn("stage listing failed; assuming stage is empty", logging.Error(err))
		listed = false
	} else {
		remote = stage.Names(objects)
		logger.Info("listed stage", logging.Int("objects", len(objects)))
	}

	plan := BuildPlan(local, remote)
	plan.RemoteListed = listed
	summary.Plan = plan
	s.observer.PlanReady(plan)
	logger.Info("upload plan ready",
		logging.Int("local", len(plan.Local)),
		logging.Int("already_present", len(plan.AlreadyPresent)),
		logging.Int("to_upload", len(plan.ToUpload)),
		logging.Int64("upload_bytes", plan.UploadBytes),
	)
	if len(plan.ToUpload) == 0 {
		return summary, nil
	}

	total := len(plan.ToUpload)
	for i, file := range plan.ToUpload {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		s.observer.TransferStarted(i+1, total, file)
		result := s.transfer(ctx, file)
		summary.Results = append(summary.Results, result)
		switch result.Outcome {
		case OutcomeUploaded:
			summary.Uploaded++
		case OutcomeSkipped:
			summary.Skipped++
		default:
			summary.Failed++
			logger.Warn("transfer failed", logging.File(file.Name), logging.Error(result.Err))
		}
		s.observer.TransferFinished(i+1, total, result)
	}

	after, err := s.stage.List(ctx)
	if err != nil {
		logger.Warn("stage re-listing failed", logging.Error(err))
	} else {
		summary.RemoteTotal = len(after)
		summary.RemoteTotalKnown = true
	}
	logger.Info("upload run finished",
		logging.Int("uploaded", summary.Uploaded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (s *Syncer) transfer(ctx context.Context, file LocalFile) Result {
	started := s.now()
	status, err := s.stage.Put(ctx, file.Path)
	result := Result{File: file, Elapsed: s.now().Sub(started)}
	switch {
	case err != nil:
		result.Outcome = OutcomeFailed
		result.Err = err
	case status == stage.StatusUploaded:
		result.Outcome = OutcomeUploaded
	case status == stage.StatusSkipped:
		result.Outcome = OutcomeSkipped
	default:
		result.Outcome = OutcomeFailed
		result.Err = services.Wrap(services.ErrTransfer, "stagesync", "put", "stage reported "+string(status), nil)
	}
	return result
}
