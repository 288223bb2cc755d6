package genai

import "sync"

// Usage accumulates token counts reported by the model across requests.
type Usage struct {
	mu               sync.Mutex
	requests         int
	failures         int
	promptTokens     int
	candidatesTokens int
	totalTokens      int
}

type UsageSnapshot struct {
	Requests         int `json:"requests"`
	Failures         int `json:"failures"`
	PromptTokens     int `json:"promptTokens"`
	CandidatesTokens int `json:"candidatesTokens"`
	TotalTokens      int `json:"totalTokens"`
}

func NewUsage() *Usage {
	return &Usage{}
}

func (u *Usage) record(meta usageMetadata) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.requests++
	u.promptTokens += meta.PromptTokenCount
	u.candidatesTokens += meta.CandidatesTokenCount
	u.totalTokens += meta.TotalTokenCount
}

func (u *Usage) recordFailure() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.requests++
	u.failures++
}

func (u *Usage) Snapshot() UsageSnapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	return UsageSnapshot{
		Requests:         u.requests,
		Failures:         u.failures,
		PromptTokens:     u.promptTokens,
		CandidatesTokens: u.candidatesTokens,
		TotalTokens:      u.totalTokens,
	}
}

// Reset clears all counters.
func (u *Usage) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.requests, u.failures = 0, 0
	u.promptTokens, u.candidatesTokens, u.totalTokens = 0, 0, 0
}
