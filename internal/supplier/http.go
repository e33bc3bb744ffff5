package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const maxResponseSize = 5 << 20

func httpClient(c Config) *http.Client {
	return &http.Client{Timeout: c.timeout()}
}

// authHeaders sets the configured auth header when the supplier has a key.
func authHeaders(c Config) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if c.APIKey == "" {
		return h
	}

	header := c.AuthHeader
	if header == "" {
		header = "Authorization"
	}
	prefix := c.AuthPrefix
	if prefix == "" && header == "Authorization" {
		prefix = "Bearer "
	}
	h.Set(header, prefix+c.APIKey)
	return h
}

func post(ctx context.Context, client *http.Client, supplierID, url string, headers http.Header, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read supplier response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			SupplierID: supplierID,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	return data, nil
}

func postJSON(ctx context.Context, client *http.Client, supplierID, url string, headers http.Header, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	data, err := post(ctx, client, supplierID, url, headers, body)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode supplier response: %w", err)
	}
	return out, nil
}

// Suppliers answer with loosely shaped JSON. The helpers below pick the
// first present, non-empty value among several candidate keys.

func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			if v != 0 {
				return strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
	}
	return ""
}

func pickNumber(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			if v != 0 {
				return v
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f != 0 {
				return f
			}
		}
	}
	return 0
}

func pickBool(m map[string]any, keys ...string) *bool {
	for _, k := range keys {
		if v, ok := m[k].(bool); ok {
			return &v
		}
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
