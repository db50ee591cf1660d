// Package gemini is a typed client for the Generative Language API's
// generateContent endpoint, covering the two model tiers the
// transcription pipeline relies on.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
)

const (
	// PrimaryModel is the first model tried for every request.
	PrimaryModel = "gemini-2.0-flash-exp"
	// LegacyModel is the older tier used when the primary model fails.
	LegacyModel = "gemini-1.5-flash"

	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
)

// ErrNoOutput is returned when a successful response carries no
// candidate text.
var ErrNoOutput = errors.New("no transcription received from Gemini API")

// RemoteError carries the service-reported failure for a request the
// API rejected.
type RemoteError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gemini API request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// IsModelMissing reports whether err indicates the requested model does
// not exist for this API key, which is the signal to retry on the
// legacy tier.
func IsModelMissing(err error) bool {
	var remote *RemoteError
	if !errors.As(err, &remote) {
		return false
	}
	return remote.StatusCode == http.StatusNotFound ||
		strings.Contains(remote.Message, "not found")
}

// GenerationConfig tunes model sampling for one request.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// PrimaryConfig returns the sampling parameters for the primary model.
func PrimaryConfig() GenerationConfig {
	return GenerationConfig{Temperature: 0.2, TopK: 40, TopP: 0.95, MaxOutputTokens: 8192}
}

// LegacyConfig returns the tighter sampling parameters for the legacy
// model.
func LegacyConfig() GenerationConfig {
	return GenerationConfig{Temperature: 0.1, TopK: 32, TopP: 1, MaxOutputTokens: 4096}
}

// Request types for the generateContent wire format.
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *geminiFileData `json:"inline_data,omitempty"`
}

type geminiFileData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the generateContent endpoint with inline audio payloads.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the production endpoint.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// NewClientForTests creates a client pointed at a test server.
func NewClientForTests(apiKey, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

// Generate submits one prompt plus inline audio to the named model and
// returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, model, prompt string, payload domain.AudioPayload, cfg GenerationConfig) (string, error) {
	encodedAudio := base64.StdEncoding.EncodeToString(payload.Data)

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: prompt},
					{
						InlineData: &geminiFileData{
							MimeType: payload.MIMEType,
							Data:     encodedAudio,
						},
					},
				},
			},
		},
		GenerationConfig: cfg,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp geminiErrorResponse
		message := "Gemini API request failed"
		if json.Unmarshal(bodyBytes, &errResp) == nil && errResp.Error.Message != "" {
			message = errResp.Error.Message
		}
		return "", &RemoteError{StatusCode: resp.StatusCode, Message: message}
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(bodyBytes, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 ||
		len(geminiResp.Candidates[0].Content.Parts) == 0 ||
		geminiResp.Candidates[0].Content.Parts[0].Text == "" {
		return "", ErrNoOutput
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}
