package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/andrewpaige1/codementor-api/projects"
	"github.com/andrewpaige1/codementor-api/utils"
)

type ChatRequest struct {
	ProjectID string `json:"projectId"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

// POST /api/chat
func (h *APIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		utils.WriteError(w, http.StatusBadRequest, "Message is required")
		return
	}

	summary := ""
	if req.ProjectID != "" {
		project, err := h.findProject(r.Context(), req.ProjectID)
		switch {
		case err == nil:
			summary = project.Summary
		case errors.Is(err, projects.ErrInvalidProjectID), errors.Is(err, projects.ErrProjectNotFound):
		default:
			log.Printf("Chat: failed to load project %s: %v", req.ProjectID, err)
		}
	}

	response, err := h.Mentor.Chat(r.Context(), req.ProjectID, summary, req.Message)
	if err != nil {
		log.Printf("Chat: %v", err)
		utils.WriteErrorDetails(w, http.StatusInternalServerError, "Failed to generate response", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, ChatResponse{Response: response})
}
