// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package screener integrates the third-party IP screening API: request
// construction, authentication probing, response normalization, caching,
// and the analysis entry point.
//
// The upstream service does not document its expected authentication
// scheme reliably, so the client probes an ordered set of credential
// encodings and remembers the one that works.
package screener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/meshintel/partlens/internal/httputil"
	"github.com/meshintel/partlens/pkg/types"
)

// Input limits enforced before any network call. The upstream rejects
// longer values with an opaque error, so we fail fast locally.
const (
	maxTitleLen   = 200
	maxSummaryLen = 2000
)

// authVariant is one candidate encoding of the API key into a request.
// build constructs a complete, independent request for the given method,
// URL, and form: attempts share no mutable state, so a failed variant
// cannot poison the next one.
type authVariant struct {
	name  string
	build func(ctx context.Context, key, method, rawURL string, form url.Values) (*http.Request, error)
}

// authVariants lists the known credential encodings in probe priority
// order. Adding or removing an encoding is a one-line change here.
var authVariants = []authVariant{
	{"direct key", buildDirectKey},
	{"bearer token", buildBearerToken},
	{"api-key prefix", buildPrefixedKey},
	{"key in body", buildKeyInBody},
}

// Client performs the authenticated network exchange with the upstream
// screening service.
type Client struct {
	httpClient *http.Client
	cfg        types.ScreenerConfig
	logger     *zap.Logger

	// goodVariant is the index into authVariants that last succeeded,
	// or -1 when no probe has succeeded yet. Follow-up calls reuse it
	// instead of re-probing.
	goodVariant atomic.Int32
}

// NewClient validates the configuration and returns a screening client.
// A missing data key is a configuration error: the service cannot operate
// without credentials, so this is fatal at construction rather than
// surfacing on every call.
func NewClient(cfg types.ScreenerConfig, logger *zap.Logger) (*Client, error) {
	if cfg.DataKey == "" {
		return nil, apiErrorf(types.ErrConfiguration, "screening API data key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger,
	}
	c.goodVariant.Store(-1)
	return c, nil
}

// SubmitQuery submits a screening query and returns the upstream session
// token (empty when the response already carries results) plus the raw
// decoded response body.
//
// Validation happens before any network call: an oversized title or
// summary fails with a validation error and zero upstream requests. The
// client then probes the auth variants in order, stopping at the first
// HTTP 200 whose body carries a session token or inline results. A 401,
// non-200, or malformed body on one variant does not abort the probe.
// When every variant fails the error is an authentication APIError
// carrying the last observed failure.
func (c *Client) SubmitQuery(ctx context.Context, title, summary, reference string, rows int) (string, map[string]any, error) {
	// Limits are in characters, not bytes: umlauts in German component
	// names must not eat into the budget.
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", nil, apiErrorf(types.ErrValidation, "title too long (max %d characters)", maxTitleLen)
	}
	if utf8.RuneCountInString(summary) > maxSummaryLen {
		return "", nil, apiErrorf(types.ErrValidation, "summary too long (max %d characters)", maxSummaryLen)
	}

	if rows <= 0 {
		rows = c.cfg.DefaultRows
	}
	if rows < 1 {
		rows = 1
	}
	if c.cfg.MaxRows > 0 && rows > c.cfg.MaxRows {
		rows = c.cfg.MaxRows
	}

	form := url.Values{
		"username":  {c.cfg.Username},
		"reference": {reference},
		"title":     {title},
		"summary":   {summary},
		"rows":      {strconv.Itoa(rows)},
	}

	var lastFailure string
	for i, v := range authVariants {
		token, body, failure := c.trySubmit(ctx, v, form)
		if failure != "" {
			c.logger.Debug("auth variant rejected",
				zap.String("variant", v.name), zap.String("reason", failure))
			lastFailure = failure
			continue
		}

		c.goodVariant.Store(int32(i))
		return token, body, nil
	}

	return "", nil, apiErrorf(types.ErrAuthentication,
		"all authentication variants failed, last error: %s", lastFailure)
}

// trySubmit runs one probe attempt. It returns a non-empty failure
// description when the variant did not produce a usable response.
func (c *Client) trySubmit(ctx context.Context, v authVariant, form url.Values) (token string, body map[string]any, failure string) {
	req, err := v.build(ctx, c.cfg.DataKey, http.MethodPost, c.cfg.DataAPIURL, form)
	if err != nil {
		return "", nil, fmt.Sprintf("building request (%s): %v", v.name, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return "", nil, fmt.Sprintf("request failed (%s): %v", v.name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", nil, fmt.Sprintf("authentication failed (%s)", v.name)
	case resp.StatusCode != http.StatusOK:
		return "", nil, fmt.Sprintf("HTTP %d (%s): %s", resp.StatusCode, v.name, bodySnippet(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", nil, fmt.Sprintf("invalid JSON response (%s): %v", v.name, err)
	}

	if token := extractToken(body); token != "" {
		c.logger.Info("screening query accepted",
			zap.String("variant", v.name), zap.Bool("session", true))
		return token, body, ""
	}
	if hasInlineResults(body) {
		// Synchronous completion: no token, results arrive in the
		// submission response itself.
		c.logger.Info("screening query accepted",
			zap.String("variant", v.name), zap.Bool("session", false))
		return "", body, ""
	}

	return "", nil, fmt.Sprintf("no session token or results (%s)", v.name)
}

// GetResults retrieves results for a session token. It reuses the auth
// variant that succeeded during submission and never re-probes: a token
// implies a prior successful submission, so a rejection here is an
// upstream failure rather than an authentication ambiguity.
func (c *Client) GetResults(ctx context.Context, sessionToken string, includeFamily bool) (map[string]any, error) {
	form := url.Values{
		"token":  {sessionToken},
		"family": {strconv.FormatBool(includeFamily)},
	}

	variant := authVariants[0]
	if i := c.goodVariant.Load(); i >= 0 && int(i) < len(authVariants) {
		variant = authVariants[i]
	}

	req, err := variant.build(ctx, c.cfg.DataKey, http.MethodGet, c.cfg.DataAPIURL, form)
	if err != nil {
		return nil, wrapAPIError(types.ErrAPI, err, "building results request")
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, wrapAPIError(types.ErrAPI, err, "results request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiErrorf(types.ErrAPI,
			"results request failed with status %d: %s", resp.StatusCode, bodySnippet(resp.Body))
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, wrapAPIError(types.ErrResponseFormat, err, "invalid JSON response when retrieving results")
	}
	return body, nil
}

// extractToken finds the session token in the known response layouts:
// nested data.token first, then the flat token, session, and ticket
// fields.
func extractToken(body map[string]any) string {
	if data, ok := body["data"].(map[string]any); ok {
		if token, ok := data["token"].(string); ok && token != "" {
			return token
		}
	}
	for _, field := range []string{"token", "session", "ticket"} {
		if token, ok := body[field].(string); ok && token != "" {
			return token
		}
	}
	return ""
}

// hasInlineResults reports whether the submission response already carries
// result data, which the upstream does for non-polling completions.
func hasInlineResults(body map[string]any) bool {
	_, hasResults := body["results"]
	_, hasPatents := body["patents"]
	return hasResults || hasPatents
}

// bodySnippet reads up to 200 bytes of a response body for error messages.
func bodySnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 200))
	return strings.TrimSpace(string(b))
}

// formRequest builds a form-encoded request: the form travels in the body
// for POST and in the query string for GET.
func formRequest(ctx context.Context, method, rawURL string, form url.Values) (*http.Request, error) {
	if method == http.MethodGet {
		return http.NewRequestWithContext(ctx, method, rawURL+"?"+form.Encode(), nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

func buildDirectKey(ctx context.Context, key, method, rawURL string, form url.Values) (*http.Request, error) {
	req, err := formRequest(ctx, method, rawURL, form)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", key)
	return req, nil
}

func buildBearerToken(ctx context.Context, key, method, rawURL string, form url.Values) (*http.Request, error) {
	req, err := formRequest(ctx, method, rawURL, form)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+key)
	return req, nil
}

func buildPrefixedKey(ctx context.Context, key, method, rawURL string, form url.Values) (*http.Request, error) {
	req, err := formRequest(ctx, method, rawURL, form)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "API-Key "+key)
	return req, nil
}

func buildKeyInBody(ctx context.Context, key, method, rawURL string, form url.Values) (*http.Request, error) {
	withKey := url.Values{}
	for k, vs := range form {
		withKey[k] = append([]string(nil), vs...)
	}
	withKey.Set("key", key)
	return formRequest(ctx, method, rawURL, withKey)
}
