package handlers

import (
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/andrewpaige1/codementor-api/cache"
	"github.com/andrewpaige1/codementor-api/speech"
	"github.com/andrewpaige1/codementor-api/utils"
)

type SpeechRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	VoiceID  string `json:"voiceId"`
}

type SpeechResponse struct {
	AudioURL string `json:"audioUrl"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
	VoiceID  string `json:"voiceId"`
	Cached   bool   `json:"cached"`
}

func audioURL(mimeType, data string) string {
	return "data:" + mimeType + ";base64," + data
}

// POST /api/text-to-speech
func (h *APIHandler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	var req SpeechRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		utils.WriteError(w, http.StatusBadRequest, "Text is required")
		return
	}
	language := req.Language
	if language == "" {
		language = "en"
	}
	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = h.DefaultVoice
	}
	if !speech.ValidVoice(voiceID) {
		utils.WriteError(w, http.StatusBadRequest, "Invalid voice ID")
		return
	}

	if language != "en" {
		text = h.Mentor.Translate(r.Context(), text, language)
	}

	if cached, ok := h.Cache.GetAudio(r.Context(), text, language, voiceID); ok {
		utils.WriteJSON(w, http.StatusOK, SpeechResponse{
			AudioURL: audioURL(cached.MimeType, cached.AudioBase64),
			MimeType: cached.MimeType,
			Text:     text,
			VoiceID:  voiceID,
			Cached:   true,
		})
		return
	}

	audio, err := h.Speech.Synthesize(r.Context(), text, voiceID)
	if err != nil {
		var apiErr *speech.APIError
		switch {
		case errors.Is(err, speech.ErrMissingAPIKey):
			utils.WriteError(w, http.StatusServiceUnavailable, "Text-to-speech is not configured")
		case errors.As(err, &apiErr):
			log.Printf("TextToSpeech: %v", err)
			utils.WriteErrorDetails(w, http.StatusBadGateway, "Failed to convert text to speech", err)
		default:
			log.Printf("TextToSpeech: %v", err)
			utils.WriteErrorDetails(w, http.StatusInternalServerError, "Failed to convert text to speech", err)
		}
		return
	}

	encoded := base64.StdEncoding.EncodeToString(audio.Data)
	if err := h.Cache.SetAudio(r.Context(), cache.Audio{
		Text:        text,
		Language:    language,
		VoiceID:     voiceID,
		AudioBase64: encoded,
		MimeType:    audio.MimeType,
	}); err != nil {
		log.Printf("TextToSpeech: failed to cache audio: %v", err)
	}

	utils.WriteJSON(w, http.StatusOK, SpeechResponse{
		AudioURL: audioURL(audio.MimeType, encoded),
		MimeType: audio.MimeType,
		Text:     text,
		VoiceID:  voiceID,
	})
}
