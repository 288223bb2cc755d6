package cmd

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/andrewpaige1/codementor-api/cache"
	"github.com/andrewpaige1/codementor-api/config"
	"github.com/andrewpaige1/codementor-api/genai"
	"github.com/andrewpaige1/codementor-api/handlers"
	"github.com/andrewpaige1/codementor-api/projects"
	"github.com/andrewpaige1/codementor-api/speech"
	"github.com/andrewpaige1/codementor-api/utils"
)

// newCache builds the cache on the configured backend.
func newCache(cfg *config.Config, db *gorm.DB) (*cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return cache.New(cache.NewMemoryStore(), cfg.Cache.Backend, cfg.Cache.TTL), nil
	case "database":
		return cache.New(cache.NewGormStore(db), cfg.Cache.Backend, cfg.Cache.TTL), nil
	}
	return nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
}

// newAPIHandler wires the upstream clients, the project store and the cache
// into the HTTP handlers.
func newAPIHandler(cfg *config.Config, db *gorm.DB) (*handlers.APIHandler, error) {
	c, err := newCache(cfg, db)
	if err != nil {
		return nil, err
	}

	httpClient := utils.NewRetryingClient(utils.RetryConfig{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  cfg.Retry.BaseDelay,
		MaxDelay:   cfg.Retry.MaxDelay,
		Timeout:    utils.DefaultRetryConfig().Timeout,
	})

	usage := genai.NewUsage()
	gemini := genai.NewClient(genai.Config{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		BaseURL:     cfg.Gemini.BaseURL,
		Temperature: cfg.Gemini.Temperature,
	}, httpClient, usage)

	elevenlabs := speech.NewClient(speech.Config{
		APIKey:  cfg.ElevenLabs.APIKey,
		BaseURL: cfg.ElevenLabs.BaseURL,
		Model:   cfg.ElevenLabs.Model,
	}, httpClient)

	defaultVoice := cfg.ElevenLabs.DefaultVoice
	if !speech.ValidVoice(defaultVoice) {
		return nil, fmt.Errorf("default voice %q is not a known voice", defaultVoice)
	}

	// Local sessions only exist when tokens are not issued by Auth0.
	jwtSecret := cfg.Auth.JWTSecret
	if cfg.Auth.Auth0Domain != "" {
		jwtSecret = ""
	}

	return &handlers.APIHandler{
		DB:            db,
		Projects:      projects.NewStore(cfg.ProjectsDir, cfg.MaxFileSize, projects.NewGitCloner(cfg.GitCloneTimeout)),
		Mentor:        genai.NewMentor(gemini, c),
		Usage:         usage,
		Speech:        elevenlabs,
		Cache:         c,
		Env:           config.NewEnvironment(cfg.CookieDomain),
		JWTSecret:     jwtSecret,
		DefaultVoice:  defaultVoice,
		MaxUploadSize: cfg.MaxUploadSize,
		AdminSubjects: cfg.Auth.AdminSubjects,
	}, nil
}
