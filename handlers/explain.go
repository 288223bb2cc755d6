package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/andrewpaige1/codementor-api/genai"
	"github.com/andrewpaige1/codementor-api/utils"
)

type ExplainRequest struct {
	Code           string `json:"code"`
	Language       string `json:"language"`
	TargetLanguage string `json:"targetLanguage"`
}

type ExplainResponse struct {
	Explanation           string `json:"explanation"`
	ExplanationHTML       string `json:"explanationHtml"`
	TranslatedExplanation string `json:"translatedExplanation,omitempty"`
	Cached                bool   `json:"cached"`
}

// POST /api/explain-code
func (h *APIHandler) ExplainCode(w http.ResponseWriter, r *http.Request) {
	var req ExplainRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		utils.WriteError(w, http.StatusBadRequest, "Code snippet is required")
		return
	}

	explanation, cached, err := h.Mentor.Explain(r.Context(), req.Code, req.Language)
	if err != nil {
		log.Printf("ExplainCode: %v", err)
		utils.WriteErrorDetails(w, http.StatusInternalServerError, "Failed to explain code snippet", err)
		return
	}

	resp := ExplainResponse{Explanation: explanation, Cached: cached}

	html, err := genai.RenderMarkdown(explanation)
	if err != nil {
		log.Printf("ExplainCode: failed to render markdown: %v", err)
	} else {
		resp.ExplanationHTML = html
	}

	if req.TargetLanguage != "" && req.TargetLanguage != "en" {
		resp.TranslatedExplanation = h.Mentor.Translate(r.Context(), explanation, req.TargetLanguage)
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}
