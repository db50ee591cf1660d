// Package transcribe orchestrates the full pipeline: preprocessing,
// the layered backend chain, response parsing, record assembly, and
// history persistence.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/config"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/gemini"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/history"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/media"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/parse"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/report"
)

// ErrAPIKeyMissing is returned before any work starts when no API key
// is configured.
var ErrAPIKeyMissing = errors.New("API key not found. Please configure your Gemini API key.")

// Progress milestones of one run.
const (
	progressStart       = 10
	progressPreExtract  = 20
	progressPostExtract = 30
	progressPrimary     = 40
	progressFallback    = 50
	progressTranscribed = 80
	progressParsed      = 90
	progressComplete    = 100
)

// progressReporter clamps callback values so the reported sequence is
// monotonically non-decreasing.
type progressReporter struct {
	cb   func(percent int)
	last int
}

func (p *progressReporter) report(percent int) {
	if p.cb == nil {
		return
	}
	if percent < p.last {
		return
	}
	p.last = percent
	p.cb(percent)
}

// Service runs transcriptions end to end.
type Service struct {
	config    *config.Store
	pre       *media.Preprocessor
	providers []Provider
	history   *history.Store
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService wires the pipeline. Providers are tried in order; the
// first is the primary tier whose error is surfaced when the whole
// chain fails.
func NewService(configStore *config.Store, pre *media.Preprocessor, providers []Provider, historyStore *history.Store, logger zerolog.Logger) *Service {
	return &Service{
		config:    configStore,
		pre:       pre,
		providers: providers,
		history:   historyStore,
		logger:    logger,
		now:       time.Now,
	}
}

// NewServiceForTests additionally fixes the clock.
func NewServiceForTests(configStore *config.Store, pre *media.Preprocessor, providers []Provider, historyStore *history.Store, logger zerolog.Logger, now func() time.Time) *Service {
	s := NewService(configStore, pre, providers, historyStore, logger)
	if now != nil {
		s.now = now
	}
	return s
}

// Run transcribes one media input and persists the resulting record.
func (s *Service) Run(ctx context.Context, input domain.MediaInput, opts Options) (domain.Record, error) {
	opts = opts.normalize()

	apiKey, err := s.config.APIKey()
	if err != nil {
		return domain.Record{}, fmt.Errorf("load API key: %w", err)
	}
	if apiKey == "" {
		return domain.Record{}, ErrAPIKeyMissing
	}
	opts.APIKey = apiKey

	progress := &progressReporter{cb: opts.OnProgress}
	progress.report(progressStart)

	logger := s.logger.With().Str("file", input.FileName).Logger()
	logger.Info().
		Str("spokenLanguage", opts.SpokenLanguage).
		Str("target", string(opts.Target)).
		Msg("transcription started")

	payload, err := s.pre.Prepare(ctx, input.Path, func(stage media.Stage) {
		switch stage {
		case media.StageExtractStart:
			progress.report(progressPreExtract)
		case media.StageExtractDone:
			progress.report(progressPostExtract)
		}
	})
	if err != nil {
		logger.Error().Err(err).Msg("preprocessing failed")
		return domain.Record{}, err
	}

	outcome, err := s.runChain(ctx, payload, opts, progress, logger)
	if err != nil {
		return domain.Record{}, err
	}
	progress.report(progressTranscribed)

	progress.report(progressParsed)
	parsed := outcome.Result
	if outcome.Structured {
		parsed = parse.ModelResponse(outcome.Raw, opts.SpokenLanguage)
	}

	meta := report.Meta{
		SpokenLanguage: opts.SpokenLanguage,
		Target:         opts.Target,
		Method:         outcome.Method,
	}
	record, err := report.Assemble(parsed, input, meta, s.now())
	if err != nil {
		logger.Error().Err(err).Msg("assembly failed")
		return domain.Record{}, err
	}
	progress.report(progressComplete)

	if err := s.history.Append(record); err != nil {
		logger.Error().Err(err).Msg("history append failed")
		return domain.Record{}, err
	}

	logger.Info().
		Str("id", record.ID).
		Str("method", outcome.Method).
		Int("words", record.WordCount).
		Msg("transcription complete")
	return record, nil
}

// runChain walks the provider tiers in order and returns the first
// success. When every tier fails, the primary tier's error is the one
// surfaced.
func (s *Service) runChain(ctx context.Context, payload domain.AudioPayload, opts Options, progress *progressReporter, logger zerolog.Logger) (Outcome, error) {
	var primaryErr error
	for i, provider := range s.providers {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		if !provider.Available() {
			logger.Warn().Str("provider", provider.Name()).Msg("provider unavailable, skipping")
			continue
		}

		if i == 0 {
			progress.report(progressPrimary)
		} else {
			progress.report(progressFallback)
		}

		outcome, err := provider.Transcribe(ctx, payload, opts)
		if err == nil {
			if i > 0 {
				logger.Info().Str("provider", provider.Name()).Msg("fallback provider succeeded")
			}
			return outcome, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Outcome{}, err
		}

		if gemini.IsModelMissing(err) {
			logger.Warn().Err(err).Str("provider", provider.Name()).Msg("model unavailable, falling back to next tier")
		} else {
			logger.Warn().Err(err).Str("provider", provider.Name()).Msg("provider failed")
		}
		if primaryErr == nil {
			primaryErr = err
		}
	}

	if primaryErr == nil {
		primaryErr = errors.New("no transcription backend is available")
	}
	return Outcome{}, fmt.Errorf("transcription failed: %w", primaryErr)
}
