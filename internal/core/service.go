package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/stacktable/internal/config"
	"github.com/JonMunkholm/stacktable/internal/logging"
)

// Service is the entry point the web front end converts through.
// It bounds concurrent conversions and keeps results for later download.
type Service struct {
	opts     Options
	maxInput int64
	limiter  *ConvertLimiter
	store    *ResultStore
}

// NewService creates a Service from the application configuration.
func NewService(cfg *config.Config) (*Service, error) {
	opts := Options{
		PadColumn:        cfg.Convert.PadColumn,
		PadFallbackIndex: cfg.Convert.PadFallbackIndex,
		PadName:          cfg.Convert.PadName,
		PadWidth:         cfg.Convert.PadWidth,
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("conversion options: %w", err)
	}

	return &Service{
		opts:     opts,
		maxInput: cfg.Convert.MaxInputSize,
		limiter:  NewConvertLimiter(cfg.Convert.MaxConcurrent, cfg.Convert.MaxWaitTime),
		store:    NewResultStore(cfg.Results.TTL, cfg.Results.MaxEntries),
	}, nil
}

// Options returns the pipeline options conversions run with.
func (s *Service) Options() Options {
	return s.opts
}

// MaxInputSize returns the input size limit in bytes.
func (s *Service) MaxInputSize() int64 {
	return s.maxInput
}

// Convert reads r, runs the pipeline and stores the result.
func (s *Service) Convert(ctx context.Context, r io.Reader) (*Conversion, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()

	text, err := ReadInput(r, s.maxInput)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := Run(text, s.opts)
	if err != nil {
		return nil, err
	}

	conv := s.store.Put(result)

	logger := logging.WithFields(ctx, "conversion_id", conv.ID)
	if ip, ua := ClientFromContext(ctx); ip != "" {
		logger = logger.With("ip", ip, "user_agent", ua)
	}
	logger.Info("conversion completed",
		"source_rows", result.Source.Len(),
		"rows", result.Stacked.Len(),
		"columns", result.Stacked.Width(),
		"stacked_columns", result.StackedColumns,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return conv, nil
}

// Conversion returns a stored conversion by ID.
func (s *Service) Conversion(id string) (*Conversion, error) {
	return s.store.Get(id)
}

// ServiceStatus is reported by the health endpoint.
type ServiceStatus struct {
	Limiter       LimiterStatus `json:"limiter"`
	StoredResults int           `json:"stored_results"`
}

// Status returns a snapshot of the limiter and the result store.
func (s *Service) Status() ServiceStatus {
	return ServiceStatus{
		Limiter:       s.limiter.Status(),
		StoredResults: s.store.Len(),
	}
}

// WaitForConversions blocks until running conversions finish or ctx is done.
func (s *Service) WaitForConversions(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
