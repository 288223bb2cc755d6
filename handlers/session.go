package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/andrewpaige1/codementor-api/auth"
	"github.com/andrewpaige1/codementor-api/models"
	"github.com/andrewpaige1/codementor-api/utils"
)

type SessionRequest struct {
	Nickname string `json:"nickname"`
}

type SessionResponse struct {
	Token    string `json:"token"`
	Nickname string `json:"nickname"`
}

// POST /api/session issues a local token. Only served when tokens are signed
// with JWTSecret rather than by Auth0.
func (h *APIHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h.JWTSecret == "" {
		utils.WriteError(w, http.StatusNotFound, "Local sessions are disabled")
		return
	}

	var req SessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		utils.WriteError(w, http.StatusBadRequest, "Nickname is required")
		return
	}

	subject := "local|" + nickname
	var user models.User
	if err := h.WithContext(r.Context()).
		Where(models.User{Auth0ID: subject}).
		Attrs(models.User{Nickname: nickname}).
		FirstOrCreate(&user).Error; err != nil {
		log.Println("CreateSession: database error:", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	tokenString, err := auth.CreateToken(h.JWTSecret, subject, nickname)
	if err != nil {
		log.Println("CreateSession: token generation error:", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	cookie := &http.Cookie{
		Name:     auth.CookieName,
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Env.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.TokenTTL.Seconds()),
	}
	if !h.Env.IsDevelopment {
		cookie.Domain = h.Env.Domain
	}
	http.SetCookie(w, cookie)

	log.Printf("CreateSession: issued token for %s", nickname)
	utils.WriteJSON(w, http.StatusOK, SessionResponse{Token: tokenString, Nickname: user.Nickname})
}
