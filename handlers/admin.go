package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/andrewpaige1/codementor-api/cache"
	"github.com/andrewpaige1/codementor-api/genai"
	"github.com/andrewpaige1/codementor-api/utils"
)

type UsageResponse struct {
	Tokens genai.UsageSnapshot `json:"tokens"`
	Cache  cache.Stats         `json:"cache"`
}

// DELETE /api/cache?expiredOnly=true
func (h *APIHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	expiredOnly, _ := strconv.ParseBool(r.URL.Query().Get("expiredOnly"))

	var (
		cleared int64
		err     error
	)
	if expiredOnly {
		cleared, err = h.Cache.PurgeExpired(r.Context())
	} else {
		cleared, err = h.Cache.Clear(r.Context())
	}
	if err != nil {
		log.Printf("ClearCache: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to clear cache")
		return
	}

	log.Printf("ClearCache: removed %d entries (expiredOnly=%t)", cleared, expiredOnly)
	utils.WriteJSON(w, http.StatusOK, map[string]int64{"cleared": cleared})
}

// GET /api/usage
func (h *APIHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	resp := UsageResponse{Cache: h.Cache.Stats()}
	if h.Usage != nil {
		resp.Tokens = h.Usage.Snapshot()
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// DELETE /api/usage resets the token counters and the cache hit/miss stats.
func (h *APIHandler) ResetUsage(w http.ResponseWriter, r *http.Request) {
	if h.Usage != nil {
		h.Usage.Reset()
	}
	h.Cache.ResetStats()

	log.Println("ResetUsage: usage and cache statistics reset")
	h.GetUsage(w, r)
}

// GET /healthz
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		log.Printf("Health: database unreachable: %v", err)
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
