package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/klauspost/compress/zip"

	"github.com/andrewpaige1/codementor-api/models"
	"github.com/andrewpaige1/codementor-api/projects"
	"github.com/andrewpaige1/codementor-api/utils"
)

const multipartMemory = 32 << 20

type UploadResponse struct {
	ProjectID string `json:"projectId"`
	Summary   string `json:"summary"`
	FileCount int    `json:"fileCount"`
}

// POST /api/upload-project
func (h *APIHandler) UploadProject(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.MaxUploadSize {
		utils.WriteError(w, http.StatusRequestEntityTooLarge, "Upload exceeds the maximum allowed size")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, http.StatusRequestEntityTooLarge, "Upload exceeds the maximum allowed size")
			return
		}
		utils.WriteErrorDetails(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var (
		upload    *projects.Upload
		err       error
		sourceURL string
	)

	uploadType := r.FormValue("uploadType")
	switch uploadType {
	case "zip":
		file, header, ferr := r.FormFile("file")
		if ferr != nil {
			utils.WriteError(w, http.StatusBadRequest, "No ZIP file provided")
			return
		}
		defer file.Close()
		upload, err = h.Projects.ImportZip(file, header.Size)

	case "git":
		sourceURL = r.FormValue("repoUrl")
		if sourceURL == "" {
			utils.WriteError(w, http.StatusBadRequest, "No repository URL provided")
			return
		}
		upload, err = h.Projects.CloneRepo(r.Context(), sourceURL)

	default:
		utils.WriteError(w, http.StatusBadRequest, "Invalid upload type")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, projects.ErrInvalidRepoURL):
			utils.WriteError(w, http.StatusBadRequest, "Invalid repository URL")
		case errors.Is(err, projects.ErrUnsafePath):
			utils.WriteErrorDetails(w, http.StatusBadRequest, "ZIP archive contains unsafe paths", err)
		case errors.Is(err, zip.ErrFormat), errors.Is(err, zip.ErrAlgorithm):
			utils.WriteErrorDetails(w, http.StatusBadRequest, "Invalid ZIP archive", err)
		default:
			log.Printf("UploadProject: error handling %s upload: %v", uploadType, err)
			utils.WriteError(w, http.StatusInternalServerError, "Failed to process project upload")
		}
		return
	}

	summary := h.Mentor.Summarize(r.Context(), upload.Files)

	project := models.Project{
		PublicID:   upload.ID,
		Dir:        upload.Dir,
		SourceType: uploadType,
		SourceURL:  sourceURL,
		FileCount:  len(upload.Files),
		Summary:    summary,
	}
	if user := h.optionalUser(r); user != nil {
		project.UserID = &user.ID
	}

	if err := h.WithContext(r.Context()).Create(&project).Error; err != nil {
		log.Printf("UploadProject: failed to save project %s: %v", upload.ID, err)
		if rmErr := h.Projects.Remove(upload.ID); rmErr != nil {
			log.Printf("UploadProject: failed to remove %s: %v", upload.ID, rmErr)
		}
		utils.WriteError(w, http.StatusInternalServerError, "Failed to process project upload")
		return
	}

	log.Printf("UploadProject: created %s from %s upload with %d files", upload.ID, uploadType, len(upload.Files))
	utils.WriteJSON(w, http.StatusOK, UploadResponse{
		ProjectID: upload.ID,
		Summary:   summary,
		FileCount: len(upload.Files),
	})
}
