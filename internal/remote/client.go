package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout       = 15 * time.Second
	defaultUploadTimeout = 60 * time.Second
)

type Config struct {
	BaseURL       string
	CDNBaseURL    string
	SiteID        string
	APIKey        string
	Timeout       time.Duration
	UploadTimeout time.Duration
}

// Client talks to the remote object-storage service. Uploads are
// multipart POSTs carrying the file plus its uploads-relative path so
// the remote side can mirror the local directory tree; the connection
// test resolves the public-facing domain used for URL construction.
type Client struct {
	cfg    Config
	http   *fasthttp.Client
	logger zerolog.Logger

	mu     sync.Mutex
	domain string
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = defaultUploadTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.CDNBaseURL = strings.TrimRight(cfg.CDNBaseURL, "/")

	return &Client{
		cfg:    cfg,
		http:   &fasthttp.Client{},
		logger: logger,
	}
}

func (c *Client) IsConfigured() bool {
	return c.cfg.SiteID != "" && c.cfg.APIKey != ""
}

// TestConnection performs an authenticated request against the site
// resource and caches the returned domain for public URL construction.
func (c *Client) TestConnection(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.cfg.BaseURL + "/api/sites/" + c.cfg.SiteID)
	req.Header.SetMethod(fasthttp.MethodGet)
	c.setAuthHeaders(req)

	if err := c.do(ctx, req, resp, c.cfg.Timeout); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return &StatusError{Code: resp.StatusCode(), Message: messageFromBody(resp.Body())}
	}

	var body struct {
		Domain string `json:"domain"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return fmt.Errorf("failed to decode site response: %w", err)
	}
	if body.Domain != "" {
		c.setDomain(body.Domain)
	}
	return nil
}

// Upload streams the file at absPath as a multipart body. relPath is
// the path relative to the uploads root, preserved on the remote side.
// Returns the remote media ID.
func (c *Client) Upload(ctx context.Context, absPath, relPath string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	file, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", absPath, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(absPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", absPath, err)
	}
	if err := writer.WriteField("file_path", strings.TrimLeft(relPath, "/")); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.cfg.BaseURL + "/api/sites/" + c.cfg.SiteID + "/media")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(writer.FormDataContentType())
	c.setAuthHeaders(req)
	req.SetBody(buf.Bytes())

	if err := c.do(ctx, req, resp, c.cfg.UploadTimeout); err != nil {
		return "", fmt.Errorf("upload failed for %s: %w", relPath, err)
	}

	code := resp.StatusCode()
	if code != fasthttp.StatusOK && code != fasthttp.StatusCreated {
		return "", &StatusError{Code: code, Message: messageFromBody(resp.Body())}
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		c.logger.Warn().Err(err).Str("path", relPath).Msg("Upload succeeded but response had no media ID")
		return "", nil
	}
	return body.ID, nil
}

// Delete removes a remote media object. Callers treat any error as
// "failed, retry later", not as already deleted.
func (c *Client) Delete(ctx context.Context, mediaID string) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	if mediaID == "" {
		return fmt.Errorf("empty media ID")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.cfg.BaseURL + "/api/sites/" + c.cfg.SiteID + "/media/" + mediaID)
	req.Header.SetMethod(fasthttp.MethodDelete)
	c.setAuthHeaders(req)

	if err := c.do(ctx, req, resp, c.cfg.Timeout); err != nil {
		return fmt.Errorf("delete failed for %s: %w", mediaID, err)
	}

	code := resp.StatusCode()
	if code != fasthttp.StatusOK && code != fasthttp.StatusNoContent {
		return &StatusError{Code: code, Message: messageFromBody(resp.Body())}
	}
	return nil
}

// PublicURL derives the public CDN URL for an uploads-relative path.
// Returns "" if the domain could not be resolved.
func (c *Client) PublicURL(ctx context.Context, relPath string) string {
	domain := c.Domain()
	if domain == "" {
		if err := c.TestConnection(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to resolve public domain")
		}
		domain = c.Domain()
	}
	if domain == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/uploads/%s", c.cfg.CDNBaseURL, domain, strings.TrimLeft(relPath, "/"))
}

func (c *Client) Domain() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.domain
}

// SetDomain seeds the cached domain, e.g. from persisted state.
func (c *Client) SetDomain(domain string) {
	c.setDomain(domain)
}

func (c *Client) setDomain(domain string) {
	c.mu.Lock()
	c.domain = domain
	c.mu.Unlock()
}

func (c *Client) setAuthHeaders(req *fasthttp.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
}

// do issues the request with the given timeout, honoring an earlier
// context deadline when one is set.
func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return c.http.DoDeadline(req, resp, deadline)
}
