// Package parse turns the semi-structured model response into transcript,
// Pain/Gain analysis, detected language, and speaker segments. Parsing
// never fails; malformed output degrades to sentinel values.
package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
)

// Sentinel values used when a section is absent or unmatched.
const (
	PainNotIdentified = "No specific pain points identified"
	GainNotIdentified = "No specific benefits identified"
)

// DefaultSegmentSpan is the assumed length in seconds of the final segment,
// which has no successor to borrow a boundary from.
const DefaultSegmentSpan = 3

// Result carries the structured fields extracted from one model response.
type Result struct {
	Transcript  string
	PainSummary string
	GainSummary string
	Language    string
	Segments    []domain.Segment
}

var (
	markerPattern  = regexp.MustCompile(`(?i)(SEGMENTS:|TRANSCRIPTION:|ANALYSIS:|LANGUAGE:)`)
	painPattern    = regexp.MustCompile(`(?is)Pain:\s*(.+?)(?:\nGain:|$)`)
	gainPattern    = regexp.MustCompile(`(?is)Gain:\s*(.+?)(?:\n|$)`)
	segmentPattern = regexp.MustCompile(`^\[(\d{2}):(\d{2}):(\d{2})\]\s*([^:]+):\s*(.+)$`)
)

// ModelResponse extracts structured fields from raw model output. Each
// section is located by its own marker, so omitted or reordered sections
// do not shift the others. languageHint is the default detected language.
func ModelResponse(raw, languageHint string) Result {
	result := Result{
		Transcript:  strings.TrimSpace(raw),
		PainSummary: PainNotIdentified,
		GainSummary: GainNotIdentified,
		Language:    languageHint,
	}

	sections := splitSections(raw)

	if transcript, ok := sections["transcription"]; ok && transcript != "" {
		result.Transcript = transcript
	}

	if analysis, ok := sections["analysis"]; ok {
		if m := painPattern.FindStringSubmatch(analysis); m != nil {
			result.PainSummary = strings.TrimSpace(m[1])
		}
		if m := gainPattern.FindStringSubmatch(analysis); m != nil {
			result.GainSummary = strings.TrimSpace(m[1])
		}
	}

	if language, ok := sections["language"]; ok && language != "" {
		result.Language = language
	}

	if block, ok := sections["segments"]; ok {
		result.Segments = Segments(block)
	}

	return result
}

// splitSections maps lowercase marker names to the trimmed text between a
// marker and the next marker of any kind. First occurrence wins.
func splitSections(raw string) map[string]string {
	locations := markerPattern.FindAllStringSubmatchIndex(raw, -1)
	sections := make(map[string]string, len(locations))

	for i, loc := range locations {
		name := strings.ToLower(strings.TrimSuffix(raw[loc[2]:loc[3]], ":"))
		if _, seen := sections[name]; seen {
			continue
		}

		end := len(raw)
		if i+1 < len(locations) {
			end = locations[i+1][0]
		}
		sections[name] = strings.TrimSpace(raw[loc[1]:end])
	}

	return sections
}

// Segments parses a segment block into ordered speaker turns. Lines that
// do not match the [HH:MM:SS] speaker: text grammar are dropped silently.
// End times are backfilled from the following segment's start; the final
// segment keeps its default span.
func Segments(block string) []domain.Segment {
	var segments []domain.Segment

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := segmentPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		start := timestampSeconds(m[1], m[2], m[3])
		segments = append(segments, domain.Segment{
			Timestamp:    m[1] + ":" + m[2] + ":" + m[3],
			Speaker:      strings.TrimSpace(m[4]),
			Text:         strings.TrimSpace(m[5]),
			StartSeconds: start,
			EndSeconds:   start + DefaultSegmentSpan,
		})
	}

	for i := 0; i < len(segments)-1; i++ {
		segments[i].EndSeconds = segments[i+1].StartSeconds
	}

	return segments
}

// timestampSeconds converts zero-padded clock components to seconds.
func timestampSeconds(hours, minutes, seconds string) float64 {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	return float64(h*3600 + m*60 + s)
}
