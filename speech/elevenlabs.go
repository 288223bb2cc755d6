package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io/v1"
	DefaultModel   = "eleven_turbo_v2_5"
	DefaultVoiceID = "pNInz6obpgDQGcFmaJgB"
	OutputFormat   = "mp3_44100_128"
	defaultMime    = "audio/mpeg"
)

var (
	ErrMissingAPIKey = errors.New("elevenlabs API key is not configured")
	ErrUnknownVoice  = errors.New("unknown voice id")
	ErrEmptyText     = errors.New("text is required")
)

// VoiceOptions maps the supported voice ids to display names.
var VoiceOptions = map[string]string{
	"21m00Tcm4TlvDq8ikWAM": "Rachel (English Female)",
	"AZnzlk1XvdvUeBnXmlld": "Domi (English Female)",
	"EXAVITQu4vr4xnSDxMaL": "Bella (English Female)",
	"ErXwobaYiN019PkySvjV": "Antoni (English Male)",
	"MF3mGyEYCl7XYWbV9V6O": "Elli (English Female)",
	"TxGEqnHWrfWFTfGW9XjX": "Josh (English Male)",
	"VR6AewLTigWG4xSOukaG": "Arnold (English Male)",
	"pNInz6obpgDQGcFmaJgB": "Adam (Indian Male)",
	"yoZ06aMxZJJ28mfd3POQ": "Sam (English Male)",
}

// ValidVoice reports whether id is one of VoiceOptions.
func ValidVoice(id string) bool {
	_, ok := VoiceOptions[id]
	return ok
}

// Audio is a synthesized clip.
type Audio struct {
	Data     []byte
	MimeType string
}

// Synthesizer turns text into speech with a given voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) (*Audio, error)
}

// APIError is a non-2xx answer from the text-to-speech endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("elevenlabs API error: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: httpClient,
	}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	SpeakerBoost    bool    `json:"use_speaker_boost"`
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

func (c *Client) Synthesize(ctx context.Context, text, voiceID string) (*Audio, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if voiceID == "" {
		voiceID = DefaultVoiceID
	}
	if !ValidVoice(voiceID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVoice, voiceID)
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: c.model,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Style:           0.5,
			SpeakerBoost:    true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error marshalling request body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s", c.baseURL, url.PathEscape(voiceID), OutputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", defaultMime)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading audio: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" || !strings.HasPrefix(mime, "audio/") {
		mime = defaultMime
	}
	return &Audio{Data: data, MimeType: mime}, nil
}
