package application

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bnema/payment-holds/internal/domain"
	"github.com/bnema/payment-holds/internal/logging"
	"github.com/bnema/payment-holds/internal/ports"
)

// Report describes what one invocation did, as far as it got.
type Report struct {
	Object       ObjectRef
	Run          domain.RunContext
	Outcomes     []domain.HoldOutcome
	Notification ports.Notification
	Notified     bool
}

type Handler struct {
	loader     *SourceLoader
	reconciler *Reconciler
	notifier   *Notifier
	ids        ports.CorrelationIDSource
}

type HandlerOption func(*Handler)

// WithProgress reports each vendor outcome while the batch is running.
func WithProgress(progress ProgressFunc) HandlerOption {
	return func(h *Handler) {
		h.reconciler.progress = progress
	}
}

func NewHandler(store ports.ObjectStore, client ports.ServiceClient, publisher ports.Publisher, ids ports.CorrelationIDSource, opts ...HandlerOption) *Handler {
	if ids == nil {
		ids = ports.UUIDSource{}
	}

	h := &Handler{
		loader:     NewSourceLoader(store),
		reconciler: NewReconciler(client),
		notifier:   NewNotifier(publisher),
		ids:        ids,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle is the Lambda entry point. Invalid events, untagged objects,
// unreadable tables and a failed active-holds lookup are logged and end the
// invocation with a nil error; anything else is returned to the platform.
func (h *Handler) Handle(ctx context.Context, event events.S3Event) error {
	_, err := h.Process(ctx, event)
	if err == nil || domain.IsTerminal(err) {
		return nil
	}
	return err
}

// Process runs validate -> load -> parse -> reconcile -> notify and returns
// every error unfiltered.
func (h *Handler) Process(ctx context.Context, event events.S3Event) (Report, error) {
	log := logging.FromContext(ctx)
	if raw, err := json.Marshal(event); err == nil {
		log.Info().RawJSON("event", raw).Msg("received event")
	}

	var report Report

	ref, err := ValidateEvent(event)
	if err != nil {
		log.Error().Err(err).Msg("invalid event message parameters")
		return report, err
	}
	report.Object = ref

	source, err := h.loader.Load(ctx, ref)
	if err != nil {
		log.Error().Err(err).Str("bucket", ref.Bucket).Str("key", ref.Key).Msg("load source object")
		return report, err
	}

	correlationID, err := h.ids.NewCorrelationID()
	if err != nil {
		return report, err
	}
	run, err := domain.NewRunContext(correlationID, source.CreatorID, ref.Key)
	if err != nil {
		return report, err
	}
	report.Run = run

	ctx = logging.WithCorrelationID(ctx, run.CorrelationID)
	log = logging.FromContext(ctx)
	log.Info().Str("key", ref.Key).Msg("run started")

	table, err := ParseVendorTable(source.Data)
	if err != nil {
		log.Error().Err(err).Msg("parse vendor table")
		return report, err
	}

	outcomes, err := h.reconciler.Reconcile(ctx, run, table)
	if err != nil {
		log.Error().Err(err).Msg("reconcile vendor holds")
		return report, err
	}
	report.Outcomes = outcomes

	notification, err := h.notifier.Notify(ctx, run, outcomes)
	report.Notification = notification
	if err != nil {
		log.Error().Err(err).Msg("notify")
		return report, err
	}
	report.Notified = true

	log.Info().Int("vendors", len(outcomes)).Int("failed", countFailed(outcomes)).Msg("run finished")
	return report, nil
}

func countFailed(outcomes []domain.HoldOutcome) int {
	failed := 0
	for _, outcome := range outcomes {
		if !outcome.Succeeded() {
			failed++
		}
	}
	return failed
}
