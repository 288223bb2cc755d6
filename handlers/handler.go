package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"slices"

	"gorm.io/gorm"

	"github.com/andrewpaige1/codementor-api/cache"
	"github.com/andrewpaige1/codementor-api/config"
	"github.com/andrewpaige1/codementor-api/genai"
	"github.com/andrewpaige1/codementor-api/models"
	"github.com/andrewpaige1/codementor-api/projects"
	"github.com/andrewpaige1/codementor-api/speech"
	"github.com/andrewpaige1/codementor-api/utils"
)

// maxJSONBody caps JSON request bodies; code snippets can be whole files.
const maxJSONBody = 10 << 20

// APIHandler carries the dependencies shared by every route.
type APIHandler struct {
	*gorm.DB
	Projects      *projects.Store
	Mentor        *genai.Mentor
	Usage         *genai.Usage
	Speech        speech.Synthesizer
	Cache         *cache.Cache
	Env           config.Environment
	JWTSecret     string
	DefaultVoice  string
	MaxUploadSize int64
	// AdminSubjects may clear the cache and reset usage counters.
	AdminSubjects []string
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		utils.WriteErrorDetails(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// writeProjectError maps project store errors to statuses.
func writeProjectError(w http.ResponseWriter, err error, caller, fallback string) {
	switch {
	case errors.Is(err, projects.ErrInvalidProjectID):
		utils.WriteError(w, http.StatusBadRequest, "Invalid project ID format")
	case errors.Is(err, projects.ErrProjectNotFound):
		utils.WriteError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, projects.ErrPathRequired):
		utils.WriteError(w, http.StatusBadRequest, "File path is required")
	case errors.Is(err, projects.ErrIsDirectory):
		utils.WriteError(w, http.StatusBadRequest, "Path is a directory, not a file")
	case errors.Is(err, projects.ErrFileNotFound):
		utils.WriteError(w, http.StatusNotFound, "File not found")
	default:
		log.Printf("%s: %v", caller, err)
		utils.WriteError(w, http.StatusInternalServerError, fallback)
	}
}

// findProject loads the row of a project by its public id.
func (h *APIHandler) findProject(ctx context.Context, publicID string) (*models.Project, error) {
	if err := projects.ValidateProjectID(publicID); err != nil {
		return nil, err
	}
	var project models.Project
	if err := h.WithContext(ctx).Where("public_id = ?", publicID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projects.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// optionalUser returns the user behind the request token, creating the row on
// first sight. Anonymous requests yield nil.
func (h *APIHandler) optionalUser(r *http.Request) *models.User {
	subject, ok := utils.GetSubject(r)
	if !ok {
		return nil
	}
	var user models.User
	if err := h.WithContext(r.Context()).Where(models.User{Auth0ID: subject}).FirstOrCreate(&user).Error; err != nil {
		log.Printf("optionalUser: failed to load user %s: %v", subject, err)
		return nil
	}
	return &user
}

// adminOnly lets through users whose subject is in AdminSubjects. It runs
// after SyncUserMiddleware.
func (h *APIHandler) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := utils.UserFromContext(r.Context())
		if !ok {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !slices.Contains(h.AdminSubjects, user.Auth0ID) {
			log.Printf("adminOnly: %s denied %s %s", user.Auth0ID, r.Method, r.URL.Path)
			utils.WriteError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r)
	}
}
