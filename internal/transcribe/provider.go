package transcribe

import (
	"context"
	"strings"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/gemini"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/parse"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/speech"
)

// Analysis sentinels for backends that cannot produce Pain/Gain
// sections.
const (
	LegacyAnalysisSentinel   = "Analysis not available with legacy model"
	OnDeviceAnalysisSentinel = "Analysis not available with on-device recognition"
)

// Outcome is one backend's transcription result. Structured outcomes
// carry the raw sectioned model text and still need parsing; plain
// outcomes carry a ready Result.
type Outcome struct {
	Raw        string
	Result     parse.Result
	Structured bool
	Method     string
}

// Provider is one tier of the transcription chain. The service walks
// providers in order until one succeeds.
type Provider interface {
	Name() string
	Available() bool
	Transcribe(ctx context.Context, payload domain.AudioPayload, opts Options) (Outcome, error)
}

// geminiClientFactory builds a client bound to one API key. Tests
// substitute a factory pointed at a local server.
type geminiClientFactory func(apiKey string) *gemini.Client

// GeminiProvider calls one Gemini model tier.
type GeminiProvider struct {
	name       string
	model      string
	structured bool
	newClient  geminiClientFactory
}

// NewPrimaryProvider returns the first-choice remote tier with the
// full sectioned prompt.
func NewPrimaryProvider() *GeminiProvider {
	return &GeminiProvider{
		name:       "gemini-primary",
		model:      gemini.PrimaryModel,
		structured: true,
		newClient:  gemini.NewClient,
	}
}

// NewLegacyProvider returns the older remote tier with the simplified
// prompt and fixed analysis sentinels.
func NewLegacyProvider() *GeminiProvider {
	return &GeminiProvider{
		name:      "gemini-legacy",
		model:     gemini.LegacyModel,
		newClient: gemini.NewClient,
	}
}

// NewGeminiProviderForTests builds a tier with an injectable client
// factory.
func NewGeminiProviderForTests(name, model string, structured bool, factory geminiClientFactory) *GeminiProvider {
	return &GeminiProvider{
		name:       name,
		model:      model,
		structured: structured,
		newClient:  factory,
	}
}

// Name identifies the tier in logs.
func (p *GeminiProvider) Name() string { return p.name }

// Available reports whether this tier can run. Remote tiers only need
// the API key, which the service checks before dispatch.
func (p *GeminiProvider) Available() bool { return true }

// Transcribe submits the payload to this tier's model.
func (p *GeminiProvider) Transcribe(ctx context.Context, payload domain.AudioPayload, opts Options) (Outcome, error) {
	client := p.newClient(opts.APIKey)

	if p.structured {
		text, err := client.Generate(ctx, p.model, gemini.Prompt(opts.Target), payload, gemini.PrimaryConfig())
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Raw: text, Structured: true, Method: "Gemini AI"}, nil
	}

	text, err := client.Generate(ctx, p.model, gemini.LegacyPrompt(opts.Target, opts.SpokenLanguage), payload, gemini.LegacyConfig())
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Result: parse.Result{
			Transcript:  strings.TrimSpace(text),
			PainSummary: LegacyAnalysisSentinel,
			GainSummary: LegacyAnalysisSentinel,
			Language:    opts.SpokenLanguage,
		},
		Method: "Gemini AI",
	}, nil
}

// SpeechProvider is the on-device recognition tier backed by a local
// whisper.cpp build.
type SpeechProvider struct {
	recognizer *speech.Recognizer
}

// NewSpeechProvider wraps a recognizer as the last chain tier.
func NewSpeechProvider(recognizer *speech.Recognizer) *SpeechProvider {
	return &SpeechProvider{recognizer: recognizer}
}

// Name identifies the tier in logs.
func (p *SpeechProvider) Name() string { return "on-device" }

// Available reports whether the local binary and a model are present.
func (p *SpeechProvider) Available() bool {
	return p.recognizer != nil && p.recognizer.Available()
}

// Transcribe runs local recognition. Pain/Gain and segments are not
// produced on this tier.
func (p *SpeechProvider) Transcribe(ctx context.Context, payload domain.AudioPayload, opts Options) (Outcome, error) {
	transcript, err := p.recognizer.Recognize(ctx, payload, languageCode(opts.SpokenLanguage))
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Result: parse.Result{
			Transcript:  transcript,
			PainSummary: OnDeviceAnalysisSentinel,
			GainSummary: OnDeviceAnalysisSentinel,
			Language:    parse.DetectLanguage(transcript),
		},
		Method: "On-Device Recognition",
	}, nil
}

// languageCode maps the free-text language hint onto a whisper.cpp
// language code, defaulting to auto-detection.
func languageCode(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "english":
		return "en"
	case "thai":
		return "th"
	case "japanese":
		return "ja"
	case "chinese":
		return "zh"
	case "korean":
		return "ko"
	case "spanish":
		return "es"
	case "french":
		return "fr"
	case "german":
		return "de"
	default:
		return "auto"
	}
}
