package domain

// TargetLanguage selects the language the transcript is produced in.
type TargetLanguage string

const (
	TargetThai    TargetLanguage = "Thai"
	TargetEnglish TargetLanguage = "English"
	TargetBoth    TargetLanguage = "Both"
)

// Valid reports whether the value is one of the known target languages.
func (t TargetLanguage) Valid() bool {
	switch t {
	case TargetThai, TargetEnglish, TargetBoth:
		return true
	default:
		return false
	}
}

// MediaInput describes one media file submitted for transcription.
// Immutable for the duration of a single request; owned by the caller.
type MediaInput struct {
	Path            string  `json:"path"`
	FileName        string  `json:"fileName"`
	PlaybackURL     string  `json:"audioUrl,omitempty"`
	DurationSeconds float64 `json:"duration,omitempty"`
	SizeLabel       string  `json:"size,omitempty"`
}

// AudioPayload is the normalized audio unit produced by preprocessing
// and consumed by the transcription providers.
type AudioPayload struct {
	FileName string
	MIMEType string
	Data     []byte
}

// Segment is one speaker turn with resolved time boundaries.
type Segment struct {
	Timestamp    string  `json:"timestamp"`
	Speaker      string  `json:"speaker"`
	Text         string  `json:"text"`
	StartSeconds float64 `json:"startSeconds"`
	EndSeconds   float64 `json:"endSeconds"`
}

// Record is the persisted unit produced by one completed transcription.
// Immutable after assembly except FileName and Downloaded, which history
// consumers may update later.
type Record struct {
	ID              string         `json:"id"`
	FileName        string         `json:"fileName"`
	Duration        string         `json:"duration"`
	Language        string         `json:"language"`
	Text            string         `json:"text"`
	CreatedAt       string         `json:"timestamp"`
	PlaybackURL     string         `json:"audioUrl,omitempty"`
	WordCount       int            `json:"wordCount"`
	CharCount       int            `json:"charCount"`
	Downloaded      bool           `json:"downloaded,omitempty"`
	PainSummary     string         `json:"painSummary"`
	GainSummary     string         `json:"gainSummary"`
	FormattedReport string         `json:"formattedContent"`
	SpokenLanguage  string         `json:"spokenLanguage,omitempty"`
	Target          TargetLanguage `json:"transcriptionTarget,omitempty"`
	Segments        []Segment      `json:"segments,omitempty"`
}

// Settings contains user-selectable values persisted between sessions.
type Settings struct {
	Theme      string `json:"theme"`
	UILanguage string `json:"language"`
	ModelPath  string `json:"modelPath,omitempty"`
}

// JobStatus tracks each stage of a single transcription job.
type JobStatus string

const (
	JobStatusIdle          JobStatus = "idle"
	JobStatusPreprocessing JobStatus = "preprocessing"
	JobStatusTranscribing  JobStatus = "transcribing"
	JobStatusAssembling    JobStatus = "assembling"
	JobStatusDone          JobStatus = "done"
	JobStatusFailed        JobStatus = "failed"
	JobStatusCancelled     JobStatus = "cancelled"
)

// Job stores the current job identity and lifecycle status.
type Job struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
}
