package handlers

import (
	"net/http"

	"github.com/andrewpaige1/codementor-api/genai"
	"github.com/andrewpaige1/codementor-api/speech"
	"github.com/andrewpaige1/codementor-api/utils"
)

// GET /api/voices
func (h *APIHandler) GetVoices(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"voices":         speech.VoiceOptions,
		"defaultVoiceId": h.DefaultVoice,
	})
}

// GET /api/languages
func (h *APIHandler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"languages": genai.Languages(),
	})
}
