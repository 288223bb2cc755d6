package middleware

import (
	"errors"
	"log"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"gorm.io/gorm"

	"github.com/andrewpaige1/codementor-api/models"
	"github.com/andrewpaige1/codementor-api/utils"
)

type contextKey string

// SyncUserMiddleware ensures the token subject exists in the DB and attaches
// the user to the request context.
func SyncUserMiddleware(db *gorm.DB) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok || claims.RegisteredClaims.Subject == "" {
				utils.WriteError(w, http.StatusUnauthorized, "No authenticated subject found")
				return
			}

			subject := claims.RegisteredClaims.Subject
			nickname := ""
			if customClaims, ok := claims.CustomClaims.(*CustomClaims); ok && customClaims != nil {
				nickname = customClaims.Nickname
			}

			var user models.User
			result := db.WithContext(r.Context()).Where("auth0_id = ?", subject).First(&user)

			switch {
			case errors.Is(result.Error, gorm.ErrRecordNotFound):
				user = models.User{
					Auth0ID:  subject,
					Nickname: nickname,
				}
				if err := db.WithContext(r.Context()).Create(&user).Error; err != nil {
					log.Println("SyncUserMiddleware: database creation error:", err)
					utils.WriteError(w, http.StatusInternalServerError, "Failed to create user")
					return
				}
				log.Printf("SyncUserMiddleware: created new user: %s", user.Nickname)
			case result.Error != nil:
				log.Println("SyncUserMiddleware: database lookup error:", result.Error)
				utils.WriteError(w, http.StatusInternalServerError, "Failed to load user")
				return
			case nickname != "" && user.Nickname != nickname:
				user.Nickname = nickname
				if err := db.WithContext(r.Context()).Save(&user).Error; err != nil {
					log.Println("SyncUserMiddleware: database update error:", err)
					utils.WriteError(w, http.StatusInternalServerError, "Failed to update user")
					return
				}
				log.Printf("SyncUserMiddleware: updated user nickname: %s", user.Nickname)
			}

			next.ServeHTTP(w, r.WithContext(utils.WithUser(r.Context(), &user)))
		}
	}
}
