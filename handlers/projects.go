package handlers

import (
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/andrewpaige1/codementor-api/models"
	"github.com/andrewpaige1/codementor-api/projects"
	"github.com/andrewpaige1/codementor-api/utils"
)

// GET /api/projects
func (h *APIHandler) GetProjectsForUser(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userProjects := []models.Project{}
	if err := h.WithContext(r.Context()).
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&userProjects).Error; err != nil {
		log.Printf("GetProjectsForUser: failed to fetch projects for %s: %v", user.Auth0ID, err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}

	utils.WriteJSON(w, http.StatusOK, userProjects)
}

// GET /api/projects/{projectId}
func (h *APIHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.findProject(r.Context(), r.PathValue("projectId"))
	if err != nil {
		writeProjectError(w, err, "GetProject", "Failed to fetch project")
		return
	}
	utils.WriteJSON(w, http.StatusOK, project)
}

// DELETE /api/projects/{projectId}
func (h *APIHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	project, err := h.findProject(r.Context(), r.PathValue("projectId"))
	if err != nil {
		writeProjectError(w, err, "DeleteProject", "Failed to fetch project")
		return
	}

	if project.UserID == nil || *project.UserID != user.ID {
		utils.WriteError(w, http.StatusForbidden, "Only the project owner can delete it")
		return
	}

	err = h.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.QuizAttempt{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("project_id = ?", project.ID).Delete(&models.Visualization{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(project).Error
	})
	if err != nil {
		log.Printf("DeleteProject: failed to delete %s: %v", project.PublicID, err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	if err := h.Projects.Remove(project.PublicID); err != nil && !errors.Is(err, projects.ErrProjectNotFound) {
		log.Printf("DeleteProject: failed to remove directory of %s: %v", project.PublicID, err)
	}

	log.Printf("DeleteProject: %s deleted by %s", project.PublicID, user.Auth0ID)
	w.WriteHeader(http.StatusNoContent)
}
