package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/andrewpaige1/codementor-api/auth"
	"github.com/andrewpaige1/codementor-api/config"
	"github.com/andrewpaige1/codementor-api/utils"
)

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Nickname string `json:"nickname"`
}

// Validate satisfies validator.CustomClaims; nickname is optional.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken validates bearer tokens (or the session cookie) and puts
// the validated claims in the request context. Requests without a token pass
// through anonymously; routes that need a user wrap SyncUserMiddleware.
func EnsureValidToken(cfg config.AuthConfig) (func(http.Handler) http.Handler, error) {
	validate, err := newValidator(cfg)
	if err != nil {
		return nil, err
	}
	if validate == nil {
		log.Println("EnsureValidToken: no Auth0 domain or JWT secret configured, all requests are anonymous")
		return func(next http.Handler) http.Handler { return next }, nil
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("EnsureValidToken: encountered error while validating JWT: %v", err)
		utils.WriteError(w, http.StatusUnauthorized, "Failed to validate JWT.")
	}

	middleware := jwtmiddleware.New(
		validate,
		jwtmiddleware.WithCredentialsOptional(true),
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithTokenExtractor(tokenFromRequest),
	)

	return middleware.CheckJWT, nil
}

func newValidator(cfg config.AuthConfig) (jwtmiddleware.ValidateToken, error) {
	if cfg.Auth0Domain != "" {
		issuerURL, err := url.Parse("https://" + strings.TrimSuffix(strings.TrimPrefix(cfg.Auth0Domain, "https://"), "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
		}

		provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

		jwtValidator, err := validator.New(
			provider.KeyFunc,
			validator.RS256,
			issuerURL.String(),
			[]string{cfg.Auth0Audience},
			validator.WithCustomClaims(
				func() validator.CustomClaims {
					return &CustomClaims{}
				},
			),
			validator.WithAllowedClockSkew(time.Minute),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
		}
		return jwtValidator.ValidateToken, nil
	}

	if cfg.JWTSecret != "" {
		return localValidator(cfg.JWTSecret), nil
	}
	return nil, nil
}

// localValidator accepts tokens issued by POST /api/session.
func localValidator(secret string) jwtmiddleware.ValidateToken {
	return func(ctx context.Context, token string) (interface{}, error) {
		claims, err := auth.VerifyToken(secret, token)
		if err != nil {
			return nil, err
		}
		return &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{
				Subject: claims.Subject,
				Issuer:  claims.Issuer,
			},
			CustomClaims: &CustomClaims{Nickname: claims.Nickname},
		}, nil
	}
}

// tokenFromRequest reads the Authorization header first and falls back to
// the session cookie. An absent token is not an error.
func tokenFromRequest(r *http.Request) (string, error) {
	token, err := jwtmiddleware.AuthHeaderTokenExtractor(r)
	if err != nil || token != "" {
		return token, err
	}

	cookie, err := r.Cookie(auth.CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
