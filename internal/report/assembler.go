// Package report computes transcript statistics, renders the formatted
// report document, and assembles the persistable record.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/parse"
)

// MinTranscriptLength is the validity floor for an assembled transcript.
const MinTranscriptLength = 10

// ErrTranscriptTooShort is returned when the parsed transcript is empty or
// below the validity floor. Callers should retry with clearer audio.
var ErrTranscriptTooShort = errors.New("transcription result is too short or empty; please try again with a clearer audio file")

// Meta carries request context embedded into the assembled record.
type Meta struct {
	SpokenLanguage string
	Target         domain.TargetLanguage
	Method         string
}

// WordCount counts maximal whitespace-delimited substrings containing at
// least one non-whitespace character.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// CharCount counts Unicode code points of the transcript.
func CharCount(text string) int {
	return utf8.RuneCountInString(text)
}

// FormatDuration renders seconds as m:ss, or 0:00 when unknown.
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0:00"
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatDurationClock renders seconds as zero-padded hh:mm:ss.
func FormatDurationClock(seconds float64) string {
	if seconds <= 0 {
		return "00:00:00"
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// NewID builds a time+random composite identifier. Not cryptographically
// unique, but collision-improbable at this application's scale.
func NewID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

// Assemble validates the parsed result and builds the final record.
func Assemble(parsed parse.Result, input domain.MediaInput, meta Meta, now time.Time) (domain.Record, error) {
	transcript := strings.TrimSpace(parsed.Transcript)
	if CharCount(transcript) < MinTranscriptLength {
		return domain.Record{}, ErrTranscriptTooShort
	}

	language := parsed.Language
	if language == "" {
		language = parse.DetectLanguage(transcript)
	}

	createdAt := now.Format("1/2/2006, 3:04:05 PM")
	record := domain.Record{
		ID:             NewID(now),
		FileName:       input.FileName,
		Duration:       FormatDuration(input.DurationSeconds),
		Language:       language,
		Text:           transcript,
		CreatedAt:      createdAt,
		PlaybackURL:    input.PlaybackURL,
		WordCount:      WordCount(transcript),
		CharCount:      CharCount(transcript),
		PainSummary:    parsed.PainSummary,
		GainSummary:    parsed.GainSummary,
		SpokenLanguage: meta.SpokenLanguage,
		Target:         meta.Target,
		Segments:       parsed.Segments,
	}
	record.FormattedReport = Render(record, meta.Method)

	return record, nil
}
