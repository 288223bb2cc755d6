package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/andrewpaige1/codementor-api/genai"
	"github.com/andrewpaige1/codementor-api/models"
	"github.com/andrewpaige1/codementor-api/utils"
)

const (
	defaultQuestionCount = 5
	maxQuestionCount     = 20
	leaderboardLimit     = 50
)

var difficulties = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}

type QuizGenerateRequest struct {
	Code             string `json:"code"`
	Language         string `json:"language"`
	Difficulty       string `json:"difficulty"`
	QuestionCount    *int   `json:"questionCount"`
	FullFileAnalysis bool   `json:"fullFileAnalysis"`
}

// normalize fills defaults and clamps the question count.
func (req *QuizGenerateRequest) normalize() (genai.QuizRequest, bool) {
	difficulty := strings.ToLower(strings.TrimSpace(req.Difficulty))
	if difficulty == "" {
		difficulty = "beginner"
	}
	if !difficulties[difficulty] {
		return genai.QuizRequest{}, false
	}

	count := defaultQuestionCount
	if req.QuestionCount != nil {
		count = min(max(*req.QuestionCount, 1), maxQuestionCount)
	}

	return genai.QuizRequest{
		Code:             req.Code,
		Language:         req.Language,
		Difficulty:       difficulty,
		QuestionCount:    count,
		FullFileAnalysis: req.FullFileAnalysis,
	}, true
}

// POST /api/generate-quiz
func (h *APIHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req QuizGenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		utils.WriteError(w, http.StatusBadRequest, "Code is required")
		return
	}

	quizReq, ok := req.normalize()
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "Difficulty must be beginner, intermediate or advanced")
		return
	}

	quiz, err := h.Mentor.Quiz(r.Context(), quizReq)
	if err != nil {
		if errors.Is(err, genai.ErrNoJSON) || errors.Is(err, genai.ErrInvalidQuiz) {
			utils.WriteErrorDetails(w, http.StatusInternalServerError, "Failed to parse quiz data. Please try again.", err)
			return
		}
		log.Printf("GenerateQuiz: %v", err)
		utils.WriteErrorDetails(w, http.StatusInternalServerError, "Failed to generate quiz. API error.", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, quiz)
}

type QuizAttemptRequest struct {
	FilePath       string `json:"filePath"`
	Difficulty     string `json:"difficulty"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
	TimeSeconds    int    `json:"timeSeconds"`
}

type QuizAttemptResponse struct {
	ID             string    `json:"id"`
	Nickname       string    `json:"nickname"`
	FilePath       string    `json:"filePath"`
	Difficulty     string    `json:"difficulty"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
	TimeSeconds    int       `json:"timeSeconds"`
	TakenAt        time.Time `json:"takenAt"`
}

func toAttemptResponse(a models.QuizAttempt) QuizAttemptResponse {
	return QuizAttemptResponse{
		ID:             a.PublicID,
		Nickname:       a.User.Nickname,
		FilePath:       a.FilePath,
		Difficulty:     a.Difficulty,
		CorrectAnswers: a.CorrectAnswers,
		TotalQuestions: a.TotalQuestions,
		TimeSeconds:    a.TimeSeconds,
		TakenAt:        a.TakenAt,
	}
}

// GET /api/projects/{projectId}/quiz-attempts
func (h *APIHandler) GetQuizLeaderboard(w http.ResponseWriter, r *http.Request) {
	project, err := h.findProject(r.Context(), r.PathValue("projectId"))
	if err != nil {
		writeProjectError(w, err, "GetQuizLeaderboard", "Failed to fetch project")
		return
	}

	query := h.WithContext(r.Context()).
		Preload("User").
		Where("project_id = ?", project.ID)
	if filePath := r.URL.Query().Get("filePath"); filePath != "" {
		query = query.Where("file_path = ?", filePath)
	}

	var attempts []models.QuizAttempt
	if err := query.
		Order("correct_answers DESC").
		Order("time_seconds ASC").
		Limit(leaderboardLimit).
		Find(&attempts).Error; err != nil {
		log.Printf("GetQuizLeaderboard: failed to fetch attempts: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch leaderboard")
		return
	}

	resp := make([]QuizAttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		resp = append(resp, toAttemptResponse(a))
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// POST /api/projects/{projectId}/quiz-attempts
func (h *APIHandler) CreateQuizAttempt(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	project, err := h.findProject(r.Context(), r.PathValue("projectId"))
	if err != nil {
		writeProjectError(w, err, "CreateQuizAttempt", "Failed to fetch project")
		return
	}

	var req QuizAttemptRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteErrorDetails(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.TotalQuestions <= 0 || req.CorrectAnswers < 0 || req.CorrectAnswers > req.TotalQuestions || req.TimeSeconds < 0 {
		utils.WriteError(w, http.StatusBadRequest, "Invalid score")
		return
	}
	difficulty := strings.ToLower(req.Difficulty)
	if difficulty != "" && !difficulties[difficulty] {
		utils.WriteError(w, http.StatusBadRequest, "Difficulty must be beginner, intermediate or advanced")
		return
	}

	publicID, err := gonanoid.New()
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to generate ID")
		return
	}

	attempt := models.QuizAttempt{
		PublicID:       publicID,
		UserID:         user.ID,
		ProjectID:      project.ID,
		FilePath:       req.FilePath,
		Difficulty:     difficulty,
		CorrectAnswers: req.CorrectAnswers,
		TotalQuestions: req.TotalQuestions,
		TimeSeconds:    req.TimeSeconds,
	}
	if err := h.WithContext(r.Context()).Create(&attempt).Error; err != nil {
		log.Printf("CreateQuizAttempt: failed to save attempt: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to save quiz attempt")
		return
	}
	attempt.User = *user

	utils.WriteJSON(w, http.StatusCreated, toAttemptResponse(attempt))
}
