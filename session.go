package query

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/tinywasm/query")

// Session pairs an Executor with the Planner that speaks its dialect.
// Consumers instantiate it via NewSession() and create handles with Find().
type Session struct {
	exec    Executor
	planner Planner
	log     zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for planned statements and rollbacks.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.log = logger
	}
}

// NewSession creates a new Session.
func NewSession(exec Executor, planner Planner, opts ...Option) *Session {
	s := &Session{
		exec:    exec,
		planner: planner,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the underlying executor if it supports it.
func (s *Session) Close() error {
	if c, ok := s.exec.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// RawExecutor returns the underlying executor instance.
func (s *Session) RawExecutor() Executor {
	return s.exec
}

func (s *Session) plan(stmt Statement) (Plan, error) {
	plan, err := s.planner.Plan(stmt)
	if err != nil {
		return Plan{}, err
	}
	s.log.Debug().
		Stringer("action", stmt.Action).
		Str("table", stmt.Table).
		Str("sql", plan.Query).
		Int("args", len(plan.Args)).
		Dur("timeout", plan.Timeout).
		Msg("planned statement")
	return plan, nil
}

// query opens the rows of stmt. Closing the returned rows ends the span and
// releases the plan deadline.
func (s *Session) query(ctx context.Context, stmt Statement) (Rows, error) {
	plan, err := s.plan(stmt)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Query", trace.WithAttributes(
		attribute.String("query.table", stmt.Table),
		attribute.Int("query.offset", stmt.Offset),
		attribute.Int("query.limit", stmt.Limit),
		attribute.Stringer("query.lock", stmt.Lock),
	))
	ctx, cancel := withTimeout(ctx, plan.Timeout)

	rows, err := s.exec.Query(ctx, plan.Query, plan.Args...)
	if err != nil {
		cancel()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		return nil, err
	}
	return &sessionRows{Rows: rows, release: func() {
		cancel()
		span.End()
	}}, nil
}

// count runs the count statement of stmt.
func (s *Session) count(ctx context.Context, stmt Statement) (int64, error) {
	plan, err := s.plan(stmt)
	if err != nil {
		return 0, err
	}

	ctx, span := tracer.Start(ctx, "Count", trace.WithAttributes(
		attribute.String("query.table", stmt.Table),
	))
	defer span.End()
	ctx, cancel := withTimeout(ctx, plan.Timeout)
	defer cancel()

	var n int64
	if err := s.exec.QueryRow(ctx, plan.Query, plan.Args...).Scan(&n); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	span.SetAttributes(attribute.Int64("query.count", n))
	return n, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

type sessionRows struct {
	Rows
	once    sync.Once
	release func()
}

func (r *sessionRows) Close() error {
	err := r.Rows.Close()
	r.once.Do(r.release)
	return err
}
