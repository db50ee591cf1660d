// Package speech runs on-device speech recognition through a local
// whisper.cpp build. It is the last resort of the transcription chain
// when the remote models are unreachable.
package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/cmdrun"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
)

// RecognitionError reports an on-device recognition failure with
// optional command context.
type RecognitionError struct {
	Message    string     `json:"message"`
	CommandLog cmdrun.Log `json:"commandLog"`
	Err        error      `json:"-"`
}

// Error formats recognition failures for logs and UI.
func (e *RecognitionError) Error() string {
	if e == nil {
		return ""
	}
	if e.CommandLog.Command == "" {
		return fmt.Sprintf("speech recognition error: %s", e.Message)
	}
	return fmt.Sprintf(
		"speech recognition error: %s (cmd=%s exit=%d)",
		e.Message,
		e.CommandLog.Command,
		e.CommandLog.ExitCode,
	)
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *RecognitionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Recognizer transcribes audio payloads with a local whisper.cpp
// binary.
type Recognizer struct {
	whisperPath string
	modelPath   string
	runner      cmdrun.Runner
	mkdirTemp   func(dir, pattern string) (string, error)
	removeAll   func(path string) error
	stat        func(name string) (os.FileInfo, error)
	readDir     func(name string) ([]os.DirEntry, error)
	readFile    func(name string) ([]byte, error)
	writeFile   func(name string, data []byte, perm os.FileMode) error
	onLog       func(log cmdrun.Log)
}

// NewRecognizer constructs the production recognizer. modelPath may be
// a model file or a directory holding one.
func NewRecognizer(modelPath string) *Recognizer {
	return &Recognizer{
		whisperPath: "whisper.cpp",
		modelPath:   modelPath,
		runner:      &cmdrun.ExecRunner{},
		mkdirTemp:   os.MkdirTemp,
		removeAll:   os.RemoveAll,
		stat:        os.Stat,
		readDir:     os.ReadDir,
		readFile:    os.ReadFile,
		writeFile:   os.WriteFile,
	}
}

// NewRecognizerForTests constructs a recognizer with injectable
// dependencies.
func NewRecognizerForTests(
	whisperPath string,
	modelPath string,
	runner cmdrun.Runner,
	stat func(name string) (os.FileInfo, error),
	readDir func(name string) ([]os.DirEntry, error),
) *Recognizer {
	return &Recognizer{
		whisperPath: whisperPath,
		modelPath:   modelPath,
		runner:      runner,
		mkdirTemp:   os.MkdirTemp,
		removeAll:   os.RemoveAll,
		stat:        stat,
		readDir:     readDir,
		readFile:    os.ReadFile,
		writeFile:   os.WriteFile,
	}
}

// SetLogCallback registers a sink for command logs.
func (r *Recognizer) SetLogCallback(cb func(log cmdrun.Log)) {
	r.onLog = cb
}

// Available reports whether both the whisper.cpp binary and a model
// file can be resolved.
func (r *Recognizer) Available() bool {
	if _, err := exec.LookPath(r.whisperPath); err != nil {
		return false
	}
	_, err := r.resolveModelPath()
	return err == nil
}

// Recognize writes the payload to a temporary WAV file, runs
// whisper.cpp over it, and returns the trimmed transcript.
func (r *Recognizer) Recognize(ctx context.Context, payload domain.AudioPayload, language string) (string, error) {
	if len(payload.Data) == 0 {
		return "", &RecognitionError{Message: "audio payload is empty"}
	}

	modelPath, err := r.resolveModelPath()
	if err != nil {
		return "", &RecognitionError{Message: err.Error(), Err: err}
	}

	tempDir, err := r.mkdirTemp("", "audio-scribe-speech-*")
	if err != nil {
		return "", &RecognitionError{Message: "failed to create temporary workspace", Err: err}
	}
	defer func() { _ = r.removeAll(tempDir) }()

	audioPath := filepath.Join(tempDir, "input.wav")
	if err := r.writeFile(audioPath, payload.Data, 0o644); err != nil {
		return "", &RecognitionError{Message: "failed to stage audio payload", Err: err}
	}

	textBase := filepath.Join(tempDir, "transcript")
	args := buildWhisperArgs(modelPath, audioPath, textBase, language)

	cmdResult, runErr := r.runner.Run(ctx, r.whisperPath, args...)
	log := cmdrun.NewLog(r.whisperPath, args, cmdResult)
	r.emitLog(log)
	if runErr != nil {
		return "", &RecognitionError{
			Message:    "whisper.cpp transcription failed",
			CommandLog: log,
			Err:        runErr,
		}
	}

	content, err := r.readFile(textBase + ".txt")
	if err != nil {
		return "", &RecognitionError{
			Message:    "whisper.cpp completed but transcript .txt file is missing",
			CommandLog: log,
			Err:        err,
		}
	}

	transcript := strings.TrimSpace(string(content))
	if transcript == "" {
		return "", &RecognitionError{
			Message:    "recognition produced no final results",
			CommandLog: log,
		}
	}
	return transcript, nil
}

// emitLog forwards command logs when a sink is configured.
func (r *Recognizer) emitLog(log cmdrun.Log) {
	if r.onLog != nil {
		r.onLog(log)
	}
}

// resolveModelPath returns the model file path from file or directory
// input, picking the lexically first model in a directory.
func (r *Recognizer) resolveModelPath() (string, error) {
	modelPath := strings.TrimSpace(r.modelPath)
	if modelPath == "" {
		return "", fmt.Errorf("model path is required")
	}

	info, err := r.stat(modelPath)
	if err != nil {
		return "", fmt.Errorf("cannot access model path: %s", modelPath)
	}
	if !info.IsDir() {
		return modelPath, nil
	}

	entries, err := r.readDir(modelPath)
	if err != nil {
		return "", fmt.Errorf("cannot read model directory: %s", modelPath)
	}

	modelNames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".bin" || ext == ".gguf" {
			modelNames = append(modelNames, entry.Name())
		}
	}
	if len(modelNames) == 0 {
		return "", fmt.Errorf("no .bin or .gguf model files found in: %s", modelPath)
	}

	sort.Strings(modelNames)
	return filepath.Join(modelPath, modelNames[0]), nil
}

// normalizeLanguage maps "auto" and empty language to no CLI override.
func normalizeLanguage(raw string) string {
	lang := strings.TrimSpace(raw)
	if lang == "" || strings.EqualFold(lang, "auto") {
		return ""
	}
	return lang
}

// buildWhisperArgs builds whisper.cpp args for txt transcript export.
func buildWhisperArgs(modelPath, audioPath, textBase, language string) []string {
	args := []string{
		"-m", modelPath,
		"-f", audioPath,
		"-of", textBase,
		"-otxt",
	}

	if lang := normalizeLanguage(language); lang != "" {
		args = append(args, "-l", lang)
	}

	return args
}
