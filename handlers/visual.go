package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/datatypes"

	"github.com/andrewpaige1/codementor-api/genai"
	"github.com/andrewpaige1/codementor-api/models"
	"github.com/andrewpaige1/codementor-api/utils"
)

type VisualRequest struct {
	Code      string `json:"code"`
	Language  string `json:"language"`
	ProjectID string `json:"projectId"`
	FilePath  string `json:"filePath"`
}

type VisualResponse struct {
	ID string `json:"id,omitempty"`
	models.Diagram
}

// POST /api/generate-visual
func (h *APIHandler) GenerateVisual(w http.ResponseWriter, r *http.Request) {
	var req VisualRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Code) == "" || req.Language == "" {
		utils.WriteError(w, http.StatusBadRequest, "Code and language are required")
		return
	}

	var project *models.Project
	if req.ProjectID != "" {
		p, err := h.findProject(r.Context(), req.ProjectID)
		if err != nil {
			writeProjectError(w, err, "GenerateVisual", "Failed to fetch project")
			return
		}
		project = p
	}

	diagram, err := h.Mentor.Visualize(r.Context(), req.Code, req.Language)
	if err != nil {
		switch {
		case errors.Is(err, genai.ErrNoJSON):
			utils.WriteErrorDetails(w, http.StatusInternalServerError, "Failed to parse visualization data", err)
		case errors.Is(err, genai.ErrInvalidDiagram):
			utils.WriteErrorDetails(w, http.StatusInternalServerError, "Invalid visualization data structure", err)
		default:
			log.Printf("GenerateVisual: %v", err)
			utils.WriteErrorDetails(w, http.StatusInternalServerError, "Failed to generate visual explanation", err)
		}
		return
	}

	resp := VisualResponse{Diagram: *diagram}
	if project != nil {
		visualization, err := h.saveVisualization(r, project, req, diagram)
		if err != nil {
			log.Printf("GenerateVisual: failed to save visualization: %v", err)
		} else {
			resp.ID = visualization.PublicID
		}
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) saveVisualization(r *http.Request, project *models.Project, req VisualRequest, diagram *models.Diagram) (*models.Visualization, error) {
	nodes, err := json.Marshal(diagram.Nodes)
	if err != nil {
		return nil, err
	}
	edges, err := json.Marshal(diagram.Edges)
	if err != nil {
		return nil, err
	}
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	visualization := models.Visualization{
		PublicID:    publicID,
		ProjectID:   project.ID,
		FilePath:    req.FilePath,
		Language:    req.Language,
		Title:       diagram.Title,
		Description: diagram.Description,
		Nodes:       datatypes.JSON(nodes),
		Edges:       datatypes.JSON(edges),
	}
	if err := h.WithContext(r.Context()).Create(&visualization).Error; err != nil {
		return nil, err
	}
	return &visualization, nil
}

// GET /api/projects/{projectId}/visualizations
func (h *APIHandler) GetVisualizations(w http.ResponseWriter, r *http.Request) {
	project, err := h.findProject(r.Context(), r.PathValue("projectId"))
	if err != nil {
		writeProjectError(w, err, "GetVisualizations", "Failed to fetch project")
		return
	}

	query := h.WithContext(r.Context()).Where("project_id = ?", project.ID)
	if filePath := r.URL.Query().Get("filePath"); filePath != "" {
		query = query.Where("file_path = ?", filePath)
	}

	visualizations := []models.Visualization{}
	if err := query.Order("created_at DESC").Find(&visualizations).Error; err != nil {
		log.Printf("GetVisualizations: failed to fetch visualizations for %s: %v", project.PublicID, err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch visualizations")
		return
	}

	utils.WriteJSON(w, http.StatusOK, visualizations)
}
