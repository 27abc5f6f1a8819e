package uploader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	uploadPath     = "/InsertCallRecordings"
	requestTimeout = 30 * time.Second
)

// Client posts call recordings to the remote collection endpoint. It performs
// no retries; a Failure result is reported to the caller, which logs and
// moves on.
type Client struct {
	BaseURL    string
	AuthToken  string
	XSRFToken  string
	HTTPClient *http.Client
}

// New constructs a Client with the standard 30 second request timeout.
func New(baseURL, authToken, xsrfToken string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AuthToken:  authToken,
		XSRFToken:  xsrfToken,
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

// Request describes one recording upload.
type Request struct {
	TenantID    int
	Email       string
	Type        string
	PhoneNumber string
	CallDate    string // date-only, YYYY-MM-DD
	FileName    string
	FilePath    string
}

// Result is the tagged outcome of one upload attempt.
type Result struct {
	OK      bool
	Body    string
	Message string
}

func failure(message string) Result {
	return Result{Message: message}
}

// Upload packages the file and metadata into a multipart submission and posts
// it. The outcome is classified, never raised: construction problems carry the
// underlying error text, transport problems report no response, and HTTP
// error statuses carry the server's message.
func (c *Client) Upload(ctx context.Context, req Request) Result {
	body, contentType, err := buildMultipart(req)
	if err != nil {
		return failure(err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+uploadPath, body)
	if err != nil {
		return failure(err.Error())
	}

	httpReq.Header.Set("Accept", "*/*")
	httpReq.Header.Set("Content-Type", contentType)
	// The collection endpoint expects the header to be present even for
	// anonymous agents; it receives the literal string "null" in that case.
	if c.AuthToken != "" {
		httpReq.Header.Set("Authorization", c.AuthToken)
	} else {
		httpReq.Header.Set("Authorization", "null")
	}
	if c.XSRFToken != "" {
		httpReq.Header.Set("X-XSRF-TOKEN", c.XSRFToken)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return failure("Network error: No response from server")
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 400 {
		serverMsg := strings.TrimSpace(string(respBody))
		if serverMsg == "" {
			serverMsg = http.StatusText(resp.StatusCode)
		}
		return failure(fmt.Sprintf("Server error: %d - %s", resp.StatusCode, serverMsg))
	}

	return Result{OK: true, Body: string(respBody)}
}

func buildMultipart(req Request) (*bytes.Buffer, string, error) {
	f, err := os.Open(req.FilePath)
	if err != nil {
		return nil, "", fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"TenantId":     strconv.Itoa(req.TenantID),
		"Email":        req.Email,
		"Type":         req.Type,
		"PhoneNumber":  req.PhoneNumber,
		"CallDatetime": req.CallDate,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, req.FileName))
	partHeader.Set("Content-Type", MimeTypeFor(req.FileName))
	part, err := w.CreatePart(partHeader)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy recording: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// MimeTypeFor resolves a content type from a recording's file extension.
func MimeTypeFor(fileName string) string {
	if t := mime.TypeByExtension(filepath.Ext(fileName)); t != "" {
		return t
	}
	return "application/octet-stream"
}
