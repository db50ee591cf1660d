package transcribe

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/cmdrun"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/config"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/gemini"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/history"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/media"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/parse"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/storage"
)

// stubProvider is a scriptable chain tier.
type stubProvider struct {
	name      string
	available bool
	outcome   Outcome
	err       error
	calls     int
}

func (p *stubProvider) Name() string    { return p.name }
func (p *stubProvider) Available() bool { return p.available }

func (p *stubProvider) Transcribe(ctx context.Context, payload domain.AudioPayload, opts Options) (Outcome, error) {
	p.calls++
	return p.outcome, p.err
}

// extractRunner stands in for ffmpeg by writing the output file named
// in the final argument.
type extractRunner struct{}

func (extractRunner) Run(_ context.Context, _ string, args ...string) (cmdrun.Result, error) {
	outPath := args[len(args)-1]
	if err := os.WriteFile(outPath, []byte("RIFF extracted"), 0o644); err != nil {
		return cmdrun.Result{ExitCode: -1}, err
	}
	return cmdrun.Result{}, nil
}

type fixture struct {
	service *Service
	history *history.Store
	input   domain.MediaInput
}

type fixtureConfig struct {
	fileName string
	mimeType string
	runner   cmdrun.Runner
	logger   zerolog.Logger
}

func newFixture(t *testing.T, providers []Provider) *fixture {
	t.Helper()
	return newFixtureWith(t, providers, fixtureConfig{
		fileName: "meeting.mp3",
		mimeType: "audio/mpeg",
		logger:   zerolog.Nop(),
	})
}

func newFixtureWith(t *testing.T, providers []Provider, cfg fixtureConfig) *fixture {
	t.Helper()

	root := t.TempDir()
	inputPath := filepath.Join(root, cfg.fileName)
	require.NoError(t, os.WriteFile(inputPath, []byte("media bytes"), 0o644))

	configStore := config.NewStore(storage.NewMemoryStorage(), storage.NewMemoryStorage())
	require.NoError(t, configStore.SaveAPIKey("AIzaTestKey1234567890"))

	pre := media.NewPreprocessorForTests("ffmpeg", cfg.runner, os.MkdirTemp, os.RemoveAll, os.Stat, os.ReadFile,
		func(path string) (string, error) { return cfg.mimeType, nil })

	historyStore := history.NewStore(storage.NewMemoryStorage())
	now := func() time.Time { return time.Date(2025, 3, 4, 15, 4, 5, 0, time.Local) }
	service := NewServiceForTests(configStore, pre, providers, historyStore, cfg.logger, now)

	return &fixture{
		service: service,
		history: historyStore,
		input: domain.MediaInput{
			Path:            inputPath,
			FileName:        cfg.fileName,
			DurationSeconds: 125,
		},
	}
}

func structuredOutcome() Outcome {
	raw := "TRANSCRIPTION:\nthe full transcript of the meeting\n\nANALYSIS:\nPain: onboarding is slow\nGain: reviews are faster\n\nLANGUAGE: English"
	return Outcome{Raw: raw, Structured: true, Method: "Gemini AI"}
}

func TestRunPrimarySuccess(t *testing.T) {
	primary := &stubProvider{name: "gemini-primary", available: true, outcome: structuredOutcome()}
	fallback := &stubProvider{name: "gemini-legacy", available: true}
	f := newFixture(t, []Provider{primary, fallback})

	var milestones []int
	record, err := f.service.Run(context.Background(), f.input, Options{
		OnProgress: func(percent int) { milestones = append(milestones, percent) },
	})
	require.NoError(t, err)

	assert.Equal(t, "the full transcript of the meeting", record.Text)
	assert.Equal(t, "onboarding is slow", record.PainSummary)
	assert.Equal(t, "reviews are faster", record.GainSummary)
	assert.Equal(t, "English", record.Language)
	assert.Equal(t, "2:05", record.Duration)
	assert.Equal(t, 0, fallback.calls, "fallback should not run")

	assert.Equal(t, []int{10, 40, 80, 90, 100}, milestones, "audio input skips the extraction milestones")
	for i := 1; i < len(milestones); i++ {
		assert.GreaterOrEqual(t, milestones[i], milestones[i-1])
	}

	records, err := f.history.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
}

func TestRunEmitsExtractionMilestonesForVideo(t *testing.T) {
	primary := &stubProvider{name: "gemini-primary", available: true, outcome: structuredOutcome()}
	f := newFixtureWith(t, []Provider{primary}, fixtureConfig{
		fileName: "meeting.mp4",
		mimeType: "video/mp4",
		runner:   extractRunner{},
		logger:   zerolog.Nop(),
	})

	var milestones []int
	_, err := f.service.Run(context.Background(), f.input, Options{
		OnProgress: func(percent int) { milestones = append(milestones, percent) },
	})
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20, 30, 40, 80, 90, 100}, milestones)
}

func TestRunFallsBackToSecondTier(t *testing.T) {
	primary := &stubProvider{name: "gemini-primary", available: true, err: errors.New("model not found")}
	legacy := &stubProvider{
		name:      "gemini-legacy",
		available: true,
		outcome: Outcome{
			Result: parse.Result{
				Transcript:  "legacy transcript long enough",
				PainSummary: LegacyAnalysisSentinel,
				GainSummary: LegacyAnalysisSentinel,
				Language:    "English",
			},
			Method: "Gemini AI",
		},
	}
	f := newFixture(t, []Provider{primary, legacy})

	var milestones []int
	record, err := f.service.Run(context.Background(), f.input, Options{
		OnProgress: func(percent int) { milestones = append(milestones, percent) },
	})
	require.NoError(t, err)

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, legacy.calls)
	assert.Equal(t, LegacyAnalysisSentinel, record.PainSummary)
	assert.Contains(t, milestones, 50, "fallback dispatch milestone")
}

func TestRunLogsModelMissingFallback(t *testing.T) {
	primary := &stubProvider{
		name:      "gemini-primary",
		available: true,
		err:       &gemini.RemoteError{StatusCode: http.StatusNotFound, Message: "model not found"},
	}
	legacy := &stubProvider{name: "gemini-legacy", available: true, outcome: structuredOutcome()}

	var buf bytes.Buffer
	f := newFixtureWith(t, []Provider{primary, legacy}, fixtureConfig{
		fileName: "meeting.mp3",
		mimeType: "audio/mpeg",
		logger:   zerolog.New(&buf),
	})

	_, err := f.service.Run(context.Background(), f.input, Options{})
	require.NoError(t, err)

	assert.True(t, strings.Contains(buf.String(), "model unavailable, falling back to next tier"),
		"log output: %s", buf.String())
}

func TestRunSurfacesPrimaryErrorWhenChainExhausted(t *testing.T) {
	primaryErr := errors.New("quota exceeded for primary model")
	primary := &stubProvider{name: "gemini-primary", available: true, err: primaryErr}
	legacy := &stubProvider{name: "gemini-legacy", available: true, err: errors.New("legacy rejected too")}
	f := newFixture(t, []Provider{primary, legacy})

	_, err := f.service.Run(context.Background(), f.input, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, primaryErr)
	assert.Contains(t, err.Error(), "transcription failed")

	records, listErr := f.history.List()
	require.NoError(t, listErr)
	assert.Empty(t, records, "failed runs must not persist")
}

func TestRunSkipsUnavailableProviders(t *testing.T) {
	primary := &stubProvider{name: "gemini-primary", available: true, err: errors.New("down")}
	offline := &stubProvider{name: "on-device", available: false}
	legacy := &stubProvider{name: "gemini-legacy", available: true, outcome: structuredOutcome()}
	f := newFixture(t, []Provider{primary, offline, legacy})

	_, err := f.service.Run(context.Background(), f.input, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, offline.calls)
	assert.Equal(t, 1, legacy.calls)
}

func TestRunRequiresAPIKey(t *testing.T) {
	primary := &stubProvider{name: "gemini-primary", available: true, outcome: structuredOutcome()}
	f := newFixture(t, []Provider{primary})
	require.NoError(t, f.service.config.ClearAPIKey())

	_, err := f.service.Run(context.Background(), f.input, Options{})
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
	assert.Equal(t, 0, primary.calls, "no backend work before the key check")
}

func TestRunRejectsShortTranscript(t *testing.T) {
	primary := &stubProvider{
		name:      "gemini-primary",
		available: true,
		outcome:   Outcome{Raw: "TRANSCRIPTION:\nhi\n\nLANGUAGE: English", Structured: true, Method: "Gemini AI"},
	}
	f := newFixture(t, []Provider{primary})

	_, err := f.service.Run(context.Background(), f.input, Options{})
	require.Error(t, err)

	records, listErr := f.history.List()
	require.NoError(t, listErr)
	assert.Empty(t, records)
}

func TestRunHonorsCancellation(t *testing.T) {
	primary := &stubProvider{name: "gemini-primary", available: true, outcome: structuredOutcome()}
	f := newFixture(t, []Provider{primary})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.Run(ctx, f.input, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, primary.calls)
}

func TestOptionsNormalize(t *testing.T) {
	opts := Options{}.normalize()
	assert.Equal(t, "English", opts.SpokenLanguage)
	assert.Equal(t, domain.TargetEnglish, opts.Target)

	opts = Options{SpokenLanguage: "Thai", Target: domain.TargetThai}.normalize()
	assert.Equal(t, "Thai", opts.SpokenLanguage)
	assert.Equal(t, domain.TargetThai, opts.Target)

	opts = Options{Target: domain.TargetLanguage("Klingon")}.normalize()
	assert.Equal(t, domain.TargetEnglish, opts.Target)
}
