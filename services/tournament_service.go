package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Dosada05/archery-tournament/brackets"
	"github.com/Dosada05/archery-tournament/metrics"
	"github.com/Dosada05/archery-tournament/models"
)

const tracerName = "github.com/Dosada05/archery-tournament/services"

// TournamentService runs the competition pipeline over a snapshot. It never
// mutates the snapshot it is given; every operation returns a new one.
type TournamentService struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics
	rules   brackets.MatchRules

	// defaultType applies to snapshots that do not name their type.
	defaultType models.TournamentType
	newID       func() string
	now         func() time.Time
}

type Option func(*TournamentService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *TournamentService) { s.logger = logger }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *TournamentService) { s.tracer = tracer }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *TournamentService) { s.metrics = m }
}

func WithMatchRules(rules brackets.MatchRules) Option {
	return func(s *TournamentService) { s.rules = rules }
}

func WithTournamentType(t models.TournamentType) Option {
	return func(s *TournamentService) { s.defaultType = t }
}

// WithIDGenerator replaces uuid.NewString for bracket and match IDs.
func WithIDGenerator(newID func() string) Option {
	return func(s *TournamentService) { s.newID = newID }
}

func WithClock(now func() time.Time) Option {
	return func(s *TournamentService) { s.now = now }
}

func NewTournamentService(opts ...Option) *TournamentService {
	s := &TournamentService{
		logger:      slog.Default(),
		tracer:      otel.Tracer(tracerName),
		rules:       brackets.DefaultMatchRules(),
		defaultType: models.TournamentIndoor,
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// withTelemetry wraps an operation with a span, metrics and panic recovery.
func (s *TournamentService) withTelemetry(
	ctx context.Context,
	operation string,
	attrs []attribute.KeyValue,
	op func(ctx context.Context) error,
) (err error) {
	ctx, span := s.tracer.Start(ctx, operation, trace.WithAttributes(
		append([]attribute.KeyValue{attribute.String("operation", operation)}, attrs...)...,
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(operation)
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(operation, time.Since(start))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operation, r)
			s.logger.ErrorContext(ctx, "critical panic recovered",
				slog.String("operation", operation),
				slog.Any("error", err),
			)
			s.metrics.RecordOperationFailure(operation)
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
		}
	}()

	if err = op(ctx); err != nil {
		err = fmt.Errorf("%s: %w", operation, err)
		s.logger.ErrorContext(ctx, "operation failed",
			slog.String("operation", operation),
			slog.Any("error", err),
		)
		s.metrics.RecordOperationFailure(operation)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	s.metrics.RecordOperationSuccess(operation)
	return nil
}
