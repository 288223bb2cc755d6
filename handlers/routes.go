package handlers

import (
	"net/http"

	"github.com/andrewpaige1/codementor-api/middleware"
)

// NewRouter registers every route of the API on a new mux.
func NewRouter(h *APIHandler) *http.ServeMux {
	syncUser := middleware.SyncUserMiddleware(h.DB)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health)

	// Projects
	mux.HandleFunc("POST /api/upload-project", h.UploadProject)
	mux.HandleFunc("GET /api/project-files/{projectId}", h.GetProjectFiles)
	mux.HandleFunc("GET /api/file-content/{projectId}", h.GetFileContent)
	mux.HandleFunc("GET /api/projects", syncUser(h.GetProjectsForUser))
	mux.HandleFunc("GET /api/projects/{projectId}", h.GetProject)
	mux.HandleFunc("DELETE /api/projects/{projectId}", syncUser(h.DeleteProject))

	// Mentor
	mux.HandleFunc("POST /api/chat", h.Chat)
	mux.HandleFunc("POST /api/explain-code", h.ExplainCode)
	mux.HandleFunc("POST /api/generate-quiz", h.GenerateQuiz)
	mux.HandleFunc("POST /api/generate-visual", h.GenerateVisual)
	mux.HandleFunc("POST /api/translate", h.Translate)
	mux.HandleFunc("POST /api/text-to-speech", h.TextToSpeech)
	mux.HandleFunc("GET /api/voices", h.GetVoices)
	mux.HandleFunc("GET /api/languages", h.GetLanguages)

	// Quiz attempts and diagrams
	mux.HandleFunc("GET /api/projects/{projectId}/quiz-attempts", h.GetQuizLeaderboard)
	mux.HandleFunc("POST /api/projects/{projectId}/quiz-attempts", syncUser(h.CreateQuizAttempt))
	mux.HandleFunc("GET /api/projects/{projectId}/visualizations", h.GetVisualizations)

	// Admin
	mux.HandleFunc("DELETE /api/cache", syncUser(h.adminOnly(h.ClearCache)))
	mux.HandleFunc("GET /api/usage", h.GetUsage)
	mux.HandleFunc("DELETE /api/usage", syncUser(h.adminOnly(h.ResetUsage)))

	mux.HandleFunc("POST /api/session", h.CreateSession)

	return mux
}
