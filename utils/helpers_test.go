package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/codementor-api/models"
)

func TestGetSubject(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetSubject(r)
	assert.False(t, ok)

	claims := &validator.ValidatedClaims{RegisteredClaims: validator.RegisteredClaims{Subject: "auth0|42"}}
	r = r.WithContext(context.WithValue(r.Context(), jwtmiddleware.ContextKey{}, claims))
	sub, ok := GetSubject(r)
	assert.True(t, ok)
	assert.Equal(t, "auth0|42", sub)
}

func TestUserContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), &models.User{Nickname: "ada"})
	user, ok := UserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "ada", user.Nickname)
}

func TestWriteErrorDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorDetails(rec, http.StatusInternalServerError, "Failed to generate quiz", errors.New("upstream down"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Failed to generate quiz", body.Error)
	assert.Equal(t, "upstream down", body.Details)

	rec = httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, "Message is required")
	assert.JSONEq(t, `{"error": "Message is required"}`, rec.Body.String())
}
