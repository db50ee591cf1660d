// Package media converts uploaded audio/video files into the mono 16k
// PCM payload the transcription backends expect.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/cmdrun"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
)

// Stage identifies a preprocessing phase reported through Prepare's
// stage hook. Audio pass-through reports no stages.
type Stage int

const (
	// StageExtractStart fires just before ffmpeg extraction begins.
	StageExtractStart Stage = iota
	// StageExtractDone fires once the extracted audio has been read.
	StageExtractDone
)

// ExtractionError is a stage-aware preprocessing error with optional
// command context.
type ExtractionError struct {
	Stage      string     `json:"stage"`
	Message    string     `json:"message"`
	CommandLog cmdrun.Log `json:"commandLog"`
	Err        error      `json:"-"`
}

// Error formats extraction failures for logs and UI.
func (e *ExtractionError) Error() string {
	if e == nil {
		return ""
	}
	if e.CommandLog.Command == "" {
		return fmt.Sprintf("%s: %s", e.Stage, e.Message)
	}

	return fmt.Sprintf(
		"%s: %s (cmd=%s exit=%d)",
		e.Stage,
		e.Message,
		e.CommandLog.Command,
		e.CommandLog.ExitCode,
	)
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *ExtractionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Preprocessor turns an uploaded media file into an inline audio
// payload, extracting the audio track from video containers first.
type Preprocessor struct {
	ffmpegPath  string
	ffprobePath string
	runner      cmdrun.Runner
	mkdirTemp   func(dir, pattern string) (string, error)
	removeAll   func(path string) error
	stat        func(name string) (os.FileInfo, error)
	readFile    func(name string) ([]byte, error)
	detectMIME  func(path string) (string, error)
	onLog       func(log cmdrun.Log)
}

// NewPreprocessor constructs the production preprocessor with OS
// dependencies.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
		runner:      &cmdrun.ExecRunner{},
		mkdirTemp:   os.MkdirTemp,
		removeAll:   os.RemoveAll,
		stat:        os.Stat,
		readFile:    os.ReadFile,
		detectMIME:  detectFileMIME,
	}
}

// NewPreprocessorForTests constructs a preprocessor with injectable
// dependencies.
func NewPreprocessorForTests(
	ffmpegPath string,
	runner cmdrun.Runner,
	mkdirTemp func(dir, pattern string) (string, error),
	removeAll func(path string) error,
	stat func(name string) (os.FileInfo, error),
	readFile func(name string) ([]byte, error),
	detectMIME func(path string) (string, error),
) *Preprocessor {
	return &Preprocessor{
		ffmpegPath:  ffmpegPath,
		ffprobePath: "ffprobe",
		runner:      runner,
		mkdirTemp:   mkdirTemp,
		removeAll:   removeAll,
		stat:        stat,
		readFile:    readFile,
		detectMIME:  detectMIME,
	}
}

// SetLogCallback registers a sink for command logs.
func (p *Preprocessor) SetLogCallback(cb func(log cmdrun.Log)) {
	p.onLog = cb
}

// detectFileMIME sniffs container type from file content rather than
// trusting the extension.
func detectFileMIME(path string) (string, error) {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	return detected.String(), nil
}

// Prepare reads the input file and returns an audio payload ready for
// inline upload. Video containers go through an ffmpeg extraction pass
// bracketed by StageExtractStart/StageExtractDone on the hook; audio
// files are passed through untouched and report no stages. onStage may
// be nil.
func (p *Preprocessor) Prepare(ctx context.Context, inputPath string, onStage func(stage Stage)) (domain.AudioPayload, error) {
	if strings.TrimSpace(inputPath) == "" {
		return domain.AudioPayload{}, &ExtractionError{
			Stage:   "preprocessing",
			Message: "input media path is required",
		}
	}

	if _, err := p.stat(inputPath); err != nil {
		return domain.AudioPayload{}, &ExtractionError{
			Stage:   "preprocessing",
			Message: fmt.Sprintf("cannot access input media: %s", inputPath),
			Err:     err,
		}
	}

	mime, err := p.detectMIME(inputPath)
	if err != nil {
		return domain.AudioPayload{}, &ExtractionError{
			Stage:   "preprocessing",
			Message: fmt.Sprintf("cannot detect media type: %s", inputPath),
			Err:     err,
		}
	}

	if strings.HasPrefix(mime, "video/") {
		return p.extractAudio(ctx, inputPath, onStage)
	}

	data, err := p.readFile(inputPath)
	if err != nil {
		return domain.AudioPayload{}, &ExtractionError{
			Stage:   "preprocessing",
			Message: fmt.Sprintf("cannot read input media: %s", inputPath),
			Err:     err,
		}
	}

	return domain.AudioPayload{
		FileName: filepath.Base(inputPath),
		MIMEType: normalizeAudioMIME(mime),
		Data:     data,
	}, nil
}

// extractAudio runs ffmpeg to split the audio track out of a video
// container as mono 16k PCM WAV. The temporary workspace is released
// before returning.
func (p *Preprocessor) extractAudio(ctx context.Context, inputPath string, onStage func(stage Stage)) (domain.AudioPayload, error) {
	emitStage(onStage, StageExtractStart)

	tempDir, err := p.mkdirTemp("", "audio-scribe-*")
	if err != nil {
		return domain.AudioPayload{}, &ExtractionError{
			Stage:   "preprocessing",
			Message: "failed to create temporary workspace",
			Err:     err,
		}
	}
	defer func() { _ = p.removeAll(tempDir) }()

	outPath := filepath.Join(tempDir, "extracted-16k-mono.wav")
	args := buildFFmpegArgs(inputPath, outPath)

	cmdResult, runErr := p.runner.Run(ctx, p.ffmpegPath, args...)
	log := cmdrun.NewLog(p.ffmpegPath, args, cmdResult)
	p.emitLog(log)
	if runErr != nil {
		return domain.AudioPayload{}, &ExtractionError{
			Stage:      "preprocessing",
			Message:    "failed to extract audio from video file",
			CommandLog: log,
			Err:        runErr,
		}
	}

	data, err := p.readFile(outPath)
	if err != nil {
		return domain.AudioPayload{}, &ExtractionError{
			Stage:      "preprocessing",
			Message:    "ffmpeg completed but output file is missing",
			CommandLog: log,
			Err:        err,
		}
	}
	emitStage(onStage, StageExtractDone)

	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return domain.AudioPayload{
		FileName: name + ".wav",
		MIMEType: "audio/wav",
		Data:     data,
	}, nil
}

// Duration probes the media duration in seconds via ffprobe. A zero
// duration with nil error means the container did not report one.
func (p *Preprocessor) Duration(ctx context.Context, inputPath string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	}

	cmdResult, runErr := p.runner.Run(ctx, p.ffprobePath, args...)
	log := cmdrun.NewLog(p.ffprobePath, args, cmdResult)
	p.emitLog(log)
	if runErr != nil {
		return 0, &ExtractionError{
			Stage:      "preprocessing",
			Message:    "ffprobe duration query failed",
			CommandLog: log,
			Err:        runErr,
		}
	}

	raw := strings.TrimSpace(cmdResult.Stdout)
	if raw == "" || raw == "N/A" {
		return 0, nil
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, nil
	}
	return seconds, nil
}

// emitLog forwards command logs when a sink is configured.
func (p *Preprocessor) emitLog(log cmdrun.Log) {
	if p.onLog != nil {
		p.onLog(log)
	}
}

// emitStage forwards stage notifications when a hook is configured.
func emitStage(onStage func(stage Stage), stage Stage) {
	if onStage != nil {
		onStage(stage)
	}
}

// normalizeAudioMIME maps sniffing results onto the MIME names the
// remote API accepts inline.
func normalizeAudioMIME(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.TrimSpace(mime)
	if strings.HasPrefix(mime, "audio/") {
		return mime
	}
	// Sniffing can report application/octet-stream for raw captures.
	return "audio/wav"
}

// buildFFmpegArgs builds extraction CLI args for mono 16k PCM WAV output.
func buildFFmpegArgs(inputPath, outPath string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		outPath,
	}
}
