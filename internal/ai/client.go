// Package ai wraps the Gemini generateContent endpoint used to polish
// user-written issue descriptions.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jaykukadiya/Issue-tracker/config"
	"github.com/jaykukadiya/Issue-tracker/internal/entities"

	"go.uber.org/zap"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

const promptPreamble = "This call is from a project called Issue Tracker (a Jira-like system to track work). " +
	"The user has written the issue description in their own words, and may have left out some details. " +
	"Kindly rephrase and enhance it if possible, but do not ask the user to provide extra input. " +
	"This response will be stored directly in the database and not shown back to the user for confirmation. " +
	"Do not give options to the user, as this text is going directly to the database. " +
	"Here is the text to improve\n\n"

// Client calls the Gemini API.
type Client struct {
	log      *zap.SugaredLogger
	http     *http.Client
	endpoint string
	apiKey   string
}

// NewClient builds a Gemini client from config. The endpoint may be overridden
// for tests.
func NewClient(log *zap.SugaredLogger, cfg config.AIConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		log:      log,
		http:     &http.Client{Timeout: timeout},
		endpoint: endpoint,
		apiKey:   cfg.GeminiAPIKey,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// EnhanceDescription rewrites a raw issue description into a cleaner one.
func (c *Client) EnhanceDescription(ctx context.Context, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: raw_description is required", entities.ErrInvalidArgument)
	}

	payload := generateRequest{Contents: []content{{Parts: []part{{Text: promptPreamble + "'" + raw + "'"}}}}}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warnw("gemini call failed", "status", resp.StatusCode, "error", decoded.Error.Message)
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, decoded.Error.Message)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	text := strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty description")
	}
	return text, nil
}
