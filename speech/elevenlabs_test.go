package speech

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Synthesize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text-to-speech/21m00Tcm4TlvDq8ikWAM", r.URL.Path)
		assert.Equal(t, OutputFormat, r.URL.Query().Get("output_format"))
		assert.Equal(t, "xi-key", r.Header.Get("xi-api-key"))

		var req synthesizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hello world", req.Text)
		assert.Equal(t, DefaultModel, req.ModelID)
		assert.Equal(t, 0.75, req.VoiceSettings.SimilarityBoost)
		assert.True(t, req.VoiceSettings.SpeakerBoost)

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte{0xFF, 0xFB, 0x90})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "xi-key", BaseURL: server.URL}, server.Client())
	audio, err := client.Synthesize(context.Background(), "Hello world", "21m00Tcm4TlvDq8ikWAM")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFB, 0x90}, audio.Data)
	assert.Equal(t, "audio/mpeg", audio.MimeType)
}

func TestClient_SynthesizeDefaultsVoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text-to-speech/"+DefaultVoiceID, r.URL.Path)
		w.Write([]byte("mp3"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL}, server.Client())
	audio, err := client.Synthesize(context.Background(), "hi", "")
	require.NoError(t, err)
	assert.Equal(t, defaultMime, audio.MimeType)
}

func TestClient_SynthesizeErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "invalid api key"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL}, server.Client())

	_, err := client.Synthesize(context.Background(), "hi", "not-a-voice")
	assert.ErrorIs(t, err, ErrUnknownVoice)

	_, err = client.Synthesize(context.Background(), "   ", DefaultVoiceID)
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = client.Synthesize(context.Background(), "hi", DefaultVoiceID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid api key")

	_, err = NewClient(Config{}, nil).Synthesize(context.Background(), "hi", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestValidVoice(t *testing.T) {
	assert.Len(t, VoiceOptions, 9)
	assert.True(t, ValidVoice(DefaultVoiceID))
	assert.False(t, ValidVoice("nope"))
}
