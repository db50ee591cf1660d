// Package app wires configuration, storage, the transcription service,
// and job tracking into one facade the UI layer binds to.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/config"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/diagnostics"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/history"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/jobs"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/media"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/report"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/speech"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/storage"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/transcribe"
)

// transcriptionRunner isolates the transcription service behind an
// interface.
type transcriptionRunner interface {
	Run(ctx context.Context, input domain.MediaInput, opts transcribe.Options) (domain.Record, error)
}

// App is the backend facade bound to the UI.
type App struct {
	Config  *config.Store
	History *history.Store
	Jobs    *jobs.Manager

	// Service is rebuilt when settings change; writes happen under mu
	// and running jobs keep the instance they started with.
	Service transcriptionRunner

	pre        *media.Preprocessor
	checker    *diagnostics.Checker
	logger     zerolog.Logger
	events     *jobs.EventBus
	storageDir string
	newService func(settings domain.Settings) transcriptionRunner

	mu          sync.Mutex
	activeJobID string
	cancel      context.CancelFunc
	diagnostics domain.DiagnosticReport
}

// New builds the application with persisted settings and startup
// diagnostics.
func New() (*App, error) {
	storagePath := config.DefaultStoragePath()
	local := storage.NewFileStorage(storagePath)
	session := storage.NewMemoryStorage()
	configStore := config.NewStore(local, session)

	// A key in the environment seeds the session, same as pasting it
	// into the settings panel.
	if _, err := configStore.LoadAPIKeyFromEnv(); err != nil {
		return nil, fmt.Errorf("load API key from environment: %w", err)
	}

	settings, err := configStore.Settings()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	historyStore := history.NewStore(local)
	pre := media.NewPreprocessor()

	a := &App{
		Config:     configStore,
		History:    historyStore,
		Jobs:       jobs.NewManager(),
		pre:        pre,
		checker:    diagnostics.NewChecker(),
		logger:     logger,
		events:     jobs.NewEventBus(500),
		storageDir: filepath.Dir(storagePath),
	}
	a.newService = func(settings domain.Settings) transcriptionRunner {
		recognizer := speech.NewRecognizer(settings.ModelPath)
		providers := []transcribe.Provider{
			transcribe.NewPrimaryProvider(),
			transcribe.NewLegacyProvider(),
			transcribe.NewSpeechProvider(recognizer),
		}
		return transcribe.NewService(configStore, pre, providers, historyStore, logger)
	}
	a.Service = a.newService(settings)
	a.diagnostics = a.checker.Run(settings, a.storageDir)

	return a, nil
}

// NewForTests builds a facade around injected collaborators.
func NewForTests(configStore *config.Store, historyStore *history.Store, service transcriptionRunner, storageDir string) *App {
	return &App{
		Config:     configStore,
		History:    historyStore,
		Jobs:       jobs.NewManager(),
		Service:    service,
		pre:        media.NewPreprocessor(),
		checker:    diagnostics.NewChecker(),
		logger:     zerolog.Nop(),
		events:     jobs.NewEventBus(100),
		storageDir: storageDir,
	}
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.diagnostics
}

// RefreshDiagnostics reloads settings and reruns dependency checks.
func (a *App) RefreshDiagnostics() (domain.DiagnosticReport, error) {
	settings, err := a.Config.Settings()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}

	report := a.checker.Run(settings, a.storageDir)
	a.mu.Lock()
	a.diagnostics = report
	a.mu.Unlock()
	return report, nil
}

// GetSettings loads and returns the latest persisted settings.
func (a *App) GetSettings() (domain.Settings, error) {
	return a.Config.Settings()
}

// SaveSettings normalizes and persists settings, rebuilds the backend
// chain for the new model path, and refreshes diagnostics.
func (a *App) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	saved, err := a.Config.SaveSettings(settings)
	if err != nil {
		return domain.Settings{}, err
	}

	report := a.checker.Run(saved, a.storageDir)

	a.mu.Lock()
	if a.newService != nil {
		a.Service = a.newService(saved)
	}
	a.diagnostics = report
	a.mu.Unlock()
	return saved, nil
}

// HasAPIKey reports whether a valid API key is configured.
func (a *App) HasAPIKey() (bool, error) {
	key, err := a.Config.APIKey()
	if err != nil {
		return false, err
	}
	return key != "", nil
}

// SaveAPIKey validates and stores the API key for this session.
func (a *App) SaveAPIKey(key string) error {
	return a.Config.SaveAPIKey(key)
}

// ClearAPIKey removes the stored API key.
func (a *App) ClearAPIKey() error {
	return a.Config.ClearAPIKey()
}

// GetWhisperModels returns the fallback model catalog with local
// availability markers.
func (a *App) GetWhisperModels() ([]domain.WhisperModelOption, error) {
	settings, err := a.Config.Settings()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return speech.Models(modelDir(settings.ModelPath)), nil
}

// GetHistory returns all persisted records, newest first.
func (a *App) GetHistory() ([]domain.Record, error) {
	return a.History.List()
}

// RenameRecord updates the display file name of one record.
func (a *App) RenameRecord(id, fileName string) error {
	return a.History.Rename(id, fileName)
}

// DeleteRecord removes one record from history.
func (a *App) DeleteRecord(id string) error {
	return a.History.Remove(id)
}

// ClearHistory removes all records.
func (a *App) ClearHistory() error {
	return a.History.Clear()
}

// DownloadReport writes one record's formatted report into dir and
// marks the record as downloaded.
func (a *App) DownloadReport(id, dir string) (string, error) {
	record, err := a.History.Get(id)
	if err != nil {
		return "", err
	}

	path, err := report.WriteExport(record, dir)
	if err != nil {
		return "", err
	}
	if err := a.History.MarkDownloaded(id); err != nil {
		return "", err
	}
	return path, nil
}

// ExportRecords writes a combined report for the selected records into
// dir and marks each as downloaded. Unknown ids are skipped.
func (a *App) ExportRecords(ids []string, dir string) (string, error) {
	var selected []domain.Record
	for _, id := range ids {
		record, err := a.History.Get(id)
		if err != nil {
			if errors.Is(err, history.ErrNotFound) {
				continue
			}
			return "", err
		}
		selected = append(selected, record)
	}
	if len(selected) == 0 {
		return "", errors.New("no records selected for export")
	}

	path, err := report.WriteCombinedExport(selected, dir, time.Now())
	if err != nil {
		return "", err
	}
	for _, record := range selected {
		if err := a.History.MarkDownloaded(record.ID); err != nil {
			return "", err
		}
	}
	return path, nil
}

// StartTranscription creates a job for the input file and runs it
// asynchronously. Progress and status are delivered via JobEvents.
func (a *App) StartTranscription(inputPath, spokenLanguage string, target domain.TargetLanguage) (domain.Job, error) {
	jobID := fmt.Sprintf("job-%d", time.Now().UnixNano())
	if err := a.Jobs.Start(jobID); err != nil {
		return domain.Job{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	a.activeJobID = jobID
	a.cancel = cancel
	service := a.Service
	a.mu.Unlock()

	a.publishStatus(jobID, domain.JobStatusPreprocessing, "Job started")

	input := domain.MediaInput{
		Path:        inputPath,
		FileName:    filepath.Base(inputPath),
		PlaybackURL: inputPath,
	}
	if seconds, err := a.pre.Duration(ctx, inputPath); err == nil {
		input.DurationSeconds = seconds
	}

	opts := transcribe.Options{
		SpokenLanguage: spokenLanguage,
		Target:         target,
	}
	go a.runTranscriptionJob(ctx, jobID, service, input, opts)
	return a.Jobs.Current(), nil
}

// CancelTranscription cancels the currently running job, if any.
func (a *App) CancelTranscription() error {
	a.mu.Lock()
	cancel := a.cancel
	activeJobID := a.activeJobID
	a.mu.Unlock()

	if cancel == nil {
		return jobs.ErrNoRunningJob
	}

	cancel()
	if err := a.Jobs.Cancel(); err != nil && !errors.Is(err, jobs.ErrNoRunningJob) {
		return err
	}

	if activeJobID != "" {
		a.publishStatus(activeJobID, domain.JobStatusCancelled, "Cancellation requested")
	}
	return nil
}

// CurrentJob returns current job metadata and status.
func (a *App) CurrentJob() domain.Job {
	return a.Jobs.Current()
}

// JobEvents returns all events with sequence greater than sinceSeq.
func (a *App) JobEvents(sinceSeq int64) []jobs.Event {
	return a.events.Since(sinceSeq)
}

// runTranscriptionJob executes the service and maps the outcome to job
// events.
func (a *App) runTranscriptionJob(ctx context.Context, jobID string, service transcriptionRunner, input domain.MediaInput, opts transcribe.Options) {
	opts.OnProgress = func(percent int) {
		switch {
		case percent >= 90:
			if err := a.Jobs.Transition(domain.JobStatusAssembling); err == nil {
				a.publishStatus(jobID, domain.JobStatusAssembling, "Assembling result")
			}
		case percent >= 40:
			if err := a.Jobs.Transition(domain.JobStatusTranscribing); err == nil {
				a.publishStatus(jobID, domain.JobStatusTranscribing, "Transcribing audio")
			}
		}
		a.publishEvent(jobs.Event{
			JobID:    jobID,
			Type:     jobs.EventTypeProgress,
			Progress: percent,
		})
	}

	record, err := service.Run(ctx, input, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			_ = a.Jobs.Transition(domain.JobStatusCancelled)
			a.publishStatus(jobID, domain.JobStatusCancelled, "Job cancelled")
			a.clearActiveJob(jobID)
			return
		}

		_ = a.Jobs.Transition(domain.JobStatusFailed)
		a.publishStatus(jobID, domain.JobStatusFailed, "Job failed")
		a.publishEvent(jobs.Event{
			JobID:   jobID,
			Type:    jobs.EventTypeError,
			Status:  domain.JobStatusFailed,
			Message: err.Error(),
		})
		a.clearActiveJob(jobID)
		return
	}

	if err := a.Jobs.Transition(domain.JobStatusDone); err == nil {
		a.publishStatus(jobID, domain.JobStatusDone, "Job completed")
	}
	a.publishEvent(jobs.Event{
		JobID:    jobID,
		Type:     jobs.EventTypeResult,
		Status:   domain.JobStatusDone,
		Message:  "Transcription saved to history",
		RecordID: record.ID,
	})
	a.clearActiveJob(jobID)
}

// publishStatus sends a normalized status event.
func (a *App) publishStatus(jobID string, status domain.JobStatus, message string) {
	a.publishEvent(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeStatus,
		Status:  status,
		Message: message,
	})
}

// publishEvent stores the event for polling subscribers.
func (a *App) publishEvent(event jobs.Event) {
	a.events.Publish(event)
}

// clearActiveJob clears cancellation handles for completed job IDs.
func (a *App) clearActiveJob(jobID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.activeJobID == jobID {
		a.activeJobID = ""
		a.cancel = nil
	}
}

// modelDir maps a model path setting onto the directory holding model
// files.
func modelDir(modelPath string) string {
	trimmed := strings.TrimSpace(modelPath)
	if trimmed == "" {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(trimmed))
	if ext == ".bin" || ext == ".gguf" {
		return filepath.Dir(trimmed)
	}
	return trimmed
}
