package transcribe

import (
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
)

// Options configures one transcription run.
type Options struct {
	// SpokenLanguage is a free-text hint for the speaker's language.
	SpokenLanguage string
	// Target selects the output language of transcript and analysis.
	Target domain.TargetLanguage
	// OnProgress receives integer percentages 0-100. Values are
	// monotonically non-decreasing and end at 100 on success.
	OnProgress func(percent int)

	// APIKey is filled in by the service before providers run.
	APIKey string
}

// normalize applies the documented defaults.
func (o Options) normalize() Options {
	if o.SpokenLanguage == "" {
		o.SpokenLanguage = "English"
	}
	if !o.Target.Valid() {
		o.Target = domain.TargetEnglish
	}
	return o
}
