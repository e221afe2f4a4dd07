package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	envAPIURL = "GEOMED_API_URL"

	defaultAPIURL = "http://localhost:8080"
	userAgent     = "geomed-cli"

	// Batch uploads wait on one Oracle call per row.
	defaultTimeout = 10 * time.Minute
)

type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClientWithCmd builds a client for the first API URL set among the
// --api-url flag, GEOMED_API_URL, the global config and the default.
func NewAPIClientWithCmd(cmd *cobra.Command) (*APIClient, error) {
	baseURL, err := resolveAPIURL(cmd)
	if err != nil {
		return nil, err
	}
	if err := ValidateAPIURL(baseURL); err != nil {
		return nil, err
	}
	return NewAPIClientWithConfig(baseURL), nil
}

func resolveAPIURL(cmd *cobra.Command) (string, error) {
	_ = godotenv.Load()

	if cmd != nil {
		if v, err := cmd.Flags().GetString("api-url"); err == nil && v != "" {
			return v, nil
		}
	}
	if v := os.Getenv(envAPIURL); v != "" {
		return v, nil
	}
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return "", err
	}
	if cfg != nil && cfg.APIURL != "" {
		return cfg.APIURL, nil
	}
	return defaultAPIURL, nil
}

func NewAPIClientWithConfig(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// APIError is a non-2xx reply; Message is the server's detail when it sent one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// Get decodes the JSON reply of path into out. A nil out discards the body.
func (c *APIClient) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the reply into out.
func (c *APIClient) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *APIClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	data, _, err := c.roundTrip(req)
	if err != nil || out == nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *APIClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

// roundTrip sends req and returns the whole body, or an *APIError for 4xx and 5xx.
func (c *APIClient) roundTrip(req *http.Request) ([]byte, http.Header, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s failed: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, nil, newAPIError(resp.StatusCode, data)
	}
	return data, resp.Header, nil
}

func newAPIError(status int, body []byte) *APIError {
	var reply struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &reply) == nil && reply.Detail != "" {
		return &APIError{StatusCode: status, Message: reply.Detail}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return &APIError{StatusCode: status, Message: msg}
	}
	return &APIError{StatusCode: status, Message: http.StatusText(status)}
}

// UploadFile posts filePath as the multipart field "file" and decodes the JSON response into out.
func (c *APIClient) UploadFile(ctx context.Context, path, filePath string, onProgress ProgressFunc, out any) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to close multipart body: %w", err)
	}

	size := int64(form.Len())
	var body io.Reader = &form
	if onProgress != nil {
		body = &progressReader{reader: &form, total: size, onProgress: onProgress}
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.ContentLength = size

	reply, _, err := c.roundTrip(req)
	if err != nil || out == nil {
		return err
	}
	if err := json.Unmarshal(reply, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Download is a fetched attachment.
type Download struct {
	Filename string
	Data     []byte
}

// Download fetches an attachment along with the filename the server suggested.
func (c *APIClient) Download(ctx context.Context, path string) (*Download, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	data, header, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	return &Download{Filename: attachmentName(header.Get("Content-Disposition")), Data: data}, nil
}

func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return ""
	}
	return filepath.Base(params["filename"])
}

// ProgressFunc is a callback for reporting upload progress.
type ProgressFunc func(current, total int64)

// progressReader wraps an io.Reader and reports progress.
type progressReader struct {
	reader     io.Reader
	total      int64
	current    int64
	onProgress ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.current += int64(n)
	if pr.onProgress != nil {
		pr.onProgress(pr.current, pr.total)
	}
	return n, err
}
