package provisioning

import (
	"context"
	"log/slog"
	"time"
)

// Operation names carried by a Transition.
const (
	OpProvision = "provision"
	OpCreate    = "create"
)

// Stage is a step of the provisioning state machine.
type Stage string

// Provisioning stages, in order. StageFailed is terminal and may follow any stage.
const (
	StageStart       Stage = "start"
	StageValidated   Stage = "validated"
	StageFetched     Stage = "fetched"
	StageSizeProbed  Stage = "size_probed"
	StageSigned      Stage = "signed"
	StageTypeChecked Stage = "type_checked"
	StagePresented   Stage = "presented"
	StageCreated     Stage = "created"
	StageFailed      Stage = "failed"
)

// Transition describes one state change of a provisioning or creation call.
type Transition struct {
	Op          string
	ContentID   string
	Stage       Stage
	ContentType string
	Bytes       int64
	Elapsed     time.Duration
	Err         error
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ctx context.Context, t Transition)

func (f ObserverFunc) Observe(ctx context.Context, t Transition) {
	f(ctx, t)
}

// Observers fans a transition out to every observer in order.
type Observers []Observer

func (o Observers) Observe(ctx context.Context, t Transition) {
	for _, observer := range o {
		if observer != nil {
			observer.Observe(ctx, t)
		}
	}
}

// LogObserver writes transitions to a structured logger. Failures are logged at
// warn level (error level for internal failures), everything else at debug.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver; a nil logger means slog.Default().
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (l *LogObserver) Observe(ctx context.Context, t Transition) {
	attrs := []any{
		"op", t.Op,
		"content_id", t.ContentID,
		"stage", string(t.Stage),
	}
	if t.ContentType != "" {
		attrs = append(attrs, "content_type", t.ContentType)
	}
	if t.Stage == StageSizeProbed {
		attrs = append(attrs, "bytes", t.Bytes)
	}

	switch {
	case t.Stage == StageFailed && Kind(t.Err) == KindInternal:
		l.logger.ErrorContext(ctx, "Content operation failed", append(attrs, "err", t.Err, "elapsed", t.Elapsed)...)
	case t.Stage == StageFailed:
		l.logger.WarnContext(ctx, "Content operation rejected", append(attrs, "kind", Kind(t.Err), "err", t.Err, "elapsed", t.Elapsed)...)
	case t.Stage == StagePresented || t.Stage == StageCreated:
		l.logger.InfoContext(ctx, "Content operation completed", append(attrs, "elapsed", t.Elapsed)...)
	default:
		l.logger.DebugContext(ctx, "Content operation transition", attrs...)
	}
}

// NoopObserver ignores every transition.
type NoopObserver struct{}

func (NoopObserver) Observe(context.Context, Transition) {}
