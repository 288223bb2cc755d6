package handlers

import (
	"net/http"
	"strconv"

	"github.com/andrewpaige1/codementor-api/models"
	"github.com/andrewpaige1/codementor-api/projects"
	"github.com/andrewpaige1/codementor-api/utils"
)

type FileTreeResponse struct {
	Files []*models.FileNode `json:"files"`
}

// GET /api/project-files/{projectId}
func (h *APIHandler) GetProjectFiles(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectId")
	beginnerLens, _ := strconv.ParseBool(r.URL.Query().Get("beginnerLens"))

	tree, err := h.Projects.Tree(projectID, beginnerLens)
	if err != nil {
		writeProjectError(w, err, "GetProjectFiles", "Failed to fetch project files")
		return
	}

	utils.WriteJSON(w, http.StatusOK, FileTreeResponse{Files: tree})
}

// GET /api/file-content/{projectId}?path=
func (h *APIHandler) GetFileContent(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectId")

	content, err := h.Projects.ReadFile(projectID, r.URL.Query().Get("path"))
	if err != nil {
		writeProjectError(w, err, "GetFileContent", "Failed to read file content")
		return
	}

	etag := projects.ContentETag(content.Content)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	utils.WriteJSON(w, http.StatusOK, content)
}
