package handlers

import (
	"net/http"
	"strings"

	"github.com/andrewpaige1/codementor-api/utils"
)

type TranslateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

type TranslateResponse struct {
	TranslatedText string `json:"translatedText"`
	TargetLanguage string `json:"targetLanguage"`
}

// POST /api/translate
func (h *APIHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		utils.WriteError(w, http.StatusBadRequest, "Text is required")
		return
	}
	if req.TargetLanguage == "" {
		utils.WriteError(w, http.StatusBadRequest, "Target language is required")
		return
	}

	utils.WriteJSON(w, http.StatusOK, TranslateResponse{
		TranslatedText: h.Mentor.Translate(r.Context(), req.Text, req.TargetLanguage),
		TargetLanguage: req.TargetLanguage,
	})
}
