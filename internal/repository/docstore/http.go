package docstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront-backend/internal/domain"
)

// HTTPStore reads and writes documents as JSON resources under a base URL:
// GET/PUT/DELETE {base}/{key}.
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPStore(baseURL, token string, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPStore{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPStore) Get(ctx context.Context, key string) (data []byte, err error) {
	defer track(ctx, "http", "get", key, time.Now(), &err)

	resp, err := s.do(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, statusError(resp, http.MethodGet, key)
	}
	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", key, err)
	}
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (s *HTTPStore) Put(ctx context.Context, key string, value []byte) (err error) {
	defer track(ctx, "http", "put", key, time.Now(), &err)

	resp, err := s.do(ctx, http.MethodPut, key, value)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp, http.MethodPut, key)
	}
	return nil
}

func (s *HTTPStore) Delete(ctx context.Context, key string) (err error) {
	defer track(ctx, "http", "delete", key, time.Now(), &err)

	resp, err := s.do(ctx, http.MethodDelete, key, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp, http.MethodDelete, key)
	}
	return nil
}

func (s *HTTPStore) do(ctx context.Context, method, key string, body []byte) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+"/"+url.PathEscape(key), rd)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, key, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s document %s: %w", strings.ToLower(method), key, err)
	}
	return resp, nil
}

func statusError(resp *http.Response, method, key string) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s document %s: status %d: %s", strings.ToLower(method), key, resp.StatusCode, strings.TrimSpace(string(msg)))
}
