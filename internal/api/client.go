// Package api is the typed REST client for the canlog file-store backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	nethttp "net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/canlog/canlog-client/internal/config"
	"github.com/canlog/canlog-client/internal/constants"
	"github.com/canlog/canlog-client/internal/http"
	"github.com/canlog/canlog-client/internal/logging"
	"github.com/canlog/canlog-client/internal/models"
)

// Client talks to the backend. It holds no state besides the base URL and
// the configured transport, so one Client may be shared across goroutines.
type Client struct {
	httpClient *nethttp.Client
	config     *config.Config
	baseURL    string
	logger     *logging.Logger
}

// Download is an open response body for a file or archive download.
// The caller must close Body.
type Download struct {
	Body     io.ReadCloser
	Size     int64 // -1 when the backend sends no Content-Length
	Filename string
}

// ReaderWrapper decorates the reader of each uploaded file, typically with a
// progress bar. It is called once per file in upload order.
type ReaderWrapper func(name string, size int64, r io.Reader) io.Reader

// NewClient creates a new API client
func NewClient(cfg *config.Config) (*Client, error) {
	baseURL := config.NormalizeBackendURL(cfg.BackendURL)
	if baseURL == "" {
		return nil, fmt.Errorf("cannot create API client: %w", config.ErrEmptyBaseURL)
	}

	httpClient, err := http.ConfigureHTTPClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	return &Client{
		httpClient: httpClient,
		config:     cfg,
		baseURL:    baseURL,
		logger:     logging.NewDefaultCLILogger(),
	}, nil
}

// SetLogger replaces the diagnostic logger.
func (c *Client) SetLogger(l *logging.Logger) {
	if l != nil {
		c.logger = l
	}
}

// GetConfig returns the configuration used by this API client
func (c *Client) GetConfig() *config.Config {
	return c.config
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest sends a request to the backend. Transport failures are wrapped
// with op; HTTP status handling is left to the caller.
func (c *Client) doRequest(ctx context.Context, op, method, path string, body io.Reader, contentType string) (*nethttp.Response, error) {
	req, err := nethttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("backend request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("backend request failed")
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}

	c.logger.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("backend response")
	return resp, nil
}

// readText reads a text response and converts non-2xx into *StatusError.
func readText(op string, resp *nethttp.Response) (string, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s response: %w", op, err)
	}
	if !isSuccess(resp.StatusCode) {
		return "", &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(data)}
	}
	return string(data), nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// Upload sends all files in one multipart POST to /upload, one "files" part
// per path in the given order. The body is streamed, never buffered whole.
// It returns the backend's response text.
func (c *Client) Upload(ctx context.Context, paths []string, wrap ReaderWrapper) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("upload: no files given")
	}

	// Fail before opening the connection if a file vanished
	sizes := make([]int64, len(paths))
	for i, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("cannot read %s: %w", p, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("cannot upload %s: is a directory", p)
		}
		sizes[i] = info.Size()
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeParts(mw, paths, sizes, wrap))
	}()

	c.logger.Info().Int("files", len(paths)).Msg("uploading")

	resp, err := c.doRequest(ctx, "upload", nethttp.MethodPost, "/upload", pr, mw.FormDataContentType())
	if err != nil {
		pr.CloseWithError(err)
		return "", err
	}
	defer pr.Close()
	return readText("upload", resp)
}

func writeParts(mw *multipart.Writer, paths []string, sizes []int64, wrap ReaderWrapper) error {
	for i, p := range paths {
		if err := writePart(mw, p, sizes[i], wrap); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writePart(mw *multipart.Writer, path string, size int64, wrap ReaderWrapper) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	part, err := mw.CreateFormFile(constants.UploadField, name)
	if err != nil {
		return fmt.Errorf("failed to create form part for %s: %w", name, err)
	}

	var r io.Reader = f
	if wrap != nil {
		r = wrap(name, size, f)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to stream %s: %w", name, err)
	}
	return nil
}

// DownloadAll requests the archive of every stored file from /download.
func (c *Client) DownloadAll(ctx context.Context) (*Download, error) {
	return c.download(ctx, "download", "/download", constants.ExportFilename)
}

// DownloadFile requests a single stored file from /download/{id}.
func (c *Client) DownloadFile(ctx context.Context, id int64, filename string) (*Download, error) {
	return c.download(ctx, "download", fmt.Sprintf("/download/%d", id), filename)
}

func (c *Client) download(ctx context.Context, op, path, fallbackName string) (*Download, error) {
	resp, err := c.doRequest(ctx, op, nethttp.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		_, err := readText(op, resp)
		return nil, err
	}

	return &Download{
		Body:     resp.Body,
		Size:     resp.ContentLength,
		Filename: attachmentName(resp.Header.Get("Content-Disposition"), fallbackName),
	}, nil
}

// attachmentName extracts the filename parameter of a Content-Disposition
// header, falling back when absent or unparsable.
func attachmentName(header, fallback string) string {
	if header == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return fallback
	}
	if name := filepath.Base(params["filename"]); name != "" && name != "." && name != string(filepath.Separator) {
		return name
	}
	return fallback
}

// DeleteAll removes every stored file via DELETE /delete.
func (c *Client) DeleteAll(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, "delete", nethttp.MethodDelete, "/delete", nil, "")
	if err != nil {
		return "", err
	}
	return readText("delete", resp)
}

// DeleteFile removes one stored file via DELETE /delete/{id}.
func (c *Client) DeleteFile(ctx context.Context, id int64) (string, error) {
	resp, err := c.doRequest(ctx, "delete", nethttp.MethodDelete, fmt.Sprintf("/delete/%d", id), nil, "")
	if err != nil {
		return "", err
	}
	return readText("delete", resp)
}

// ListFiles returns the stored files in the order the backend sends them.
func (c *Client) ListFiles(ctx context.Context) ([]models.StoredFile, error) {
	resp, err := c.doRequest(ctx, "list files", nethttp.MethodGet, "/files", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Op: "list files", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var files []models.StoredFile
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("failed to decode file list: %w", err)
	}
	if files == nil {
		files = []models.StoredFile{}
	}
	return files, nil
}

// Health checks GET /health and returns the trimmed response text.
func (c *Client) Health(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, "health check", nethttp.MethodGet, "/health", nil, "")
	if err != nil {
		return "", err
	}
	text, err := readText("health check", resp)
	return strings.TrimSpace(text), err
}
