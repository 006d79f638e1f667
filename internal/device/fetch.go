package device

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// maxPageSize bounds how much of a status page is read (1MB).
const maxPageSize = 1 << 20

type basicAuth struct {
	user     string
	password string
}

// fetchPage performs one GET and returns the body as text. Non-2xx
// responses are errors. auth may be nil for unauthenticated devices.
func fetchPage(ctx context.Context, client *http.Client, target string, auth *basicAuth) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if auth != nil {
		req.SetBasicAuth(auth.user, auth.password)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain body to allow connection reuse
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageSize))
		return "", fmt.Errorf("%w: HTTP %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %w", ErrFetchFailed, err)
	}
	return string(body), nil
}

// matchText returns the first capture group of re in body, trimmed.
// field names the value in the error when re does not match.
func matchText(re *regexp.Regexp, body string, field string) (string, error) {
	m := re.FindStringSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrFieldNotFound, field)
	}
	return strings.TrimSpace(m[1]), nil
}

// matchFloat is matchText followed by a base-10 float parse. Only finite
// decimal numbers are accepted.
func matchFloat(re *regexp.Regexp, body string, field string) (float64, error) {
	text, err := matchText(re, body, field)
	if err != nil {
		return 0, err
	}
	// ParseFloat also takes hex mantissas, NaN and Inf; none of those is
	// a reading.
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || strings.ContainsAny(text, "xX") || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s: %q", ErrInvalidNumber, field, text)
	}
	return v, nil
}
