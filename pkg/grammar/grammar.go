// Package grammar cleans up dictated text before synthesis.
//
// It talks to a LanguageTool server's /v2/check endpoint and applies
// the first suggested replacement for each match. Copy-editing is best
// effort: any failure returns the input text unchanged so a flaky or
// absent server never blocks speech.
package grammar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/internal/httpc"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/internal/log"
)

// DefaultBaseURL points at the public LanguageTool instance. Run a
// local server and point BaseURL at it to keep text off the network.
const DefaultBaseURL = "https://api.languagetool.org"

// Checker proofreads text.
type Checker interface {
	Correct(ctx context.Context, text string) (string, error)
}

// Client checks text against a LanguageTool server.
type Client struct {
	baseURL  string
	language string
	http     *http.Client
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLanguage sets the language code sent with each check.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithHTTPClient substitutes the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a LanguageTool client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		language: "en-US",
		http:     httpc.NewClient(10 * time.Second),
		logger:   log.L(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type match struct {
	Offset       int `json:"offset"`
	Length       int `json:"length"`
	Replacements []struct {
		Value string `json:"value"`
	} `json:"replacements"`
}

type checkResponse struct {
	Matches []match `json:"matches"`
}

// Correct returns text with LanguageTool's first suggestion applied to
// each match. On any error the original text is returned along with the
// error, so callers can log and carry on.
func (c *Client) Correct(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/check", strings.NewReader(form.Encode()))
	if err != nil {
		return text, fmt.Errorf("build check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return text, fmt.Errorf("check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return text, fmt.Errorf("check request: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return text, fmt.Errorf("decode check response: %w", err)
	}

	corrected := applyMatches(text, parsed.Matches)
	if corrected != text {
		c.logger.Debug("text corrected", "matches", len(parsed.Matches))
	}
	return corrected, nil
}

// applyMatches rewrites text back to front so earlier offsets stay
// valid while later ones are replaced. LanguageTool reports offset and
// length in characters, not bytes, so the text is sliced as runes;
// multi-byte characters ahead of a match must not shift it.
func applyMatches(text string, matches []match) string {
	sorted := make([]match, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset > sorted[j].Offset
	})

	out := []rune(text)
	for _, m := range sorted {
		if len(m.Replacements) == 0 {
			continue
		}
		if m.Offset < 0 || m.Offset+m.Length > len(out) {
			continue
		}
		repl := []rune(m.Replacements[0].Value)
		out = append(out[:m.Offset], append(repl, out[m.Offset+m.Length:]...)...)
	}
	return string(out)
}

var _ Checker = (*Client)(nil)
