package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dom/truth-dare-game/internal/config"
	"github.com/dom/truth-dare-game/internal/domain"
)

const promptRequestTimeout = 5 * time.Second

var fallbackPrompts = map[domain.PromptCategory]string{
	domain.CategoryTruth: "What is your biggest fear?",
	domain.CategoryDare:  "Do 10 jumping jacks.",
}

// FallbackPrompt returns the static prompt served when the content API is
// unavailable or the rate budget is exhausted.
func FallbackPrompt(category domain.PromptCategory) string {
	return fallbackPrompts[category]
}

// PromptSourceClient fetches truth/dare prompts from the external content
// API. One long-lived instance per process owns the rate-limit window, which
// is shared across all rooms.
type PromptSourceClient struct {
	baseURL    string
	rating     string
	limit      int
	window     time.Duration
	httpClient *http.Client

	mu           sync.Mutex
	requestTimes []time.Time

	now func() time.Time // test hook
}

func NewPromptSourceClient(cfg *config.Config) *PromptSourceClient {
	return &PromptSourceClient{
		baseURL: cfg.PromptAPIBaseURL,
		rating:  cfg.PromptAPIRating,
		limit:   cfg.PromptRateLimit,
		window:  cfg.PromptRateWindow,
		httpClient: &http.Client{
			Timeout: promptRequestTimeout,
		},
		now: time.Now,
	}
}

type promptAPIResponse struct {
	Question string `json:"question"`
}

// Fetch returns a prompt for the category and where it came from. It never
// returns an error: rate limiting, network failure, bad status, and malformed
// bodies all degrade to the static fallback.
func (c *PromptSourceClient) Fetch(category domain.PromptCategory) (string, domain.PromptSource) {
	if !c.reserve() {
		return fallbackPrompts[category], domain.SourceAPI
	}

	var paths []string
	if category == domain.CategoryDare {
		// Primary path first, legacy path second.
		paths = []string{"/api/dare", "/dare"}
	} else {
		paths = []string{"/truth"}
	}

	for _, path := range paths {
		if text, err := c.get(path); err == nil {
			return text, domain.SourceAPI
		}
	}
	return fallbackPrompts[category], domain.SourceAPI
}

func (c *PromptSourceClient) get(path string) (string, error) {
	u := c.baseURL + path
	if c.rating != "" {
		u += "?rating=" + url.QueryEscape(c.rating)
	}

	resp, err := c.httpClient.Get(u)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("prompt api returned status %d", resp.StatusCode)
	}

	var body promptAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Question == "" {
		return "", fmt.Errorf("prompt api response missing question")
	}
	return body.Question, nil
}

// reserve checks the sliding window and, when budget remains, stamps it
// before any network I/O happens. Counting attempts rather than successes
// bounds real requests during an outage; a fallback served because the
// window is already full consumes nothing.
func (c *PromptSourceClient) reserve() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	kept := c.requestTimes[:0]
	for _, t := range c.requestTimes {
		if now.Sub(t) < c.window {
			kept = append(kept, t)
		}
	}
	c.requestTimes = kept

	if len(c.requestTimes) >= c.limit {
		return false
	}
	c.requestTimes = append(c.requestTimes, now)
	return true
}
