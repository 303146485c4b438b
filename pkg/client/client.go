// Package client is a small Go SDK for the polychain HTTP API. It mirrors
// the server's request and response shapes so callers work with the same
// field names the API documents.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Version is the SDK version reported in the User-Agent header.
const Version = "0.1.0"

// Client talks to a polychain API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// APIError is an error response decoded from the API's error body.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("polychain: %s (HTTP %d): %s: %s", e.Code, e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("polychain: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

// IsNotFound reports whether the server answered 404.
func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// IsInvalidParam reports whether the server rejected the request parameters.
func (e *APIError) IsInvalidParam() bool { return e.StatusCode == http.StatusBadRequest }

// IsMalformed reports whether the server could not parse the XYZ input.
func (e *APIError) IsMalformed() bool { return e.StatusCode == http.StatusUnprocessableEntity }

// IsServerError reports whether the failure was on the server side.
func (e *APIError) IsServerError() bool { return e.StatusCode >= 500 }

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("client: baseURL must not be empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid baseURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  "polychain-go/" + Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GenerateRequest carries procedural-builder parameters. Nil pointer fields
// take the server's configured defaults.
type GenerateRequest struct {
	Units        int      `json:"units"`
	BondAngle    *float64 `json:"bond_angle,omitempty"`
	TorsionAngle *float64 `json:"torsion_angle,omitempty"`
	BondLength   *float64 `json:"bond_length,omitempty"`
	Element      string   `json:"element,omitempty"`
	Comment      string   `json:"comment,omitempty"`
	SaveAs       string   `json:"save_as,omitempty"`
}

// GenerateResult is the server's build response.
type GenerateResult struct {
	XYZ       string `json:"xyz"`
	AtomCount int    `json:"atom_count"`
	BondCount int    `json:"bond_count"`
	SavedPath string `json:"saved_path,omitempty"`
}

// Generate builds a chain on the server.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	var res GenerateResult
	if err := c.postJSON(ctx, "/api/v1/chains/generate", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Vec3 is a 3D translation vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RepeatRequest carries monomer-repeater parameters; the monomer document
// itself is passed separately to Repeat.
type RepeatRequest struct {
	Units   int
	Offset  *Vec3
	Strict  bool
	Comment string
	SaveAs  string
}

// RepeatResult is the server's repeat response.
type RepeatResult struct {
	XYZ          string `json:"xyz"`
	AtomCount    int    `json:"atom_count"`
	MonomerAtoms int    `json:"monomer_atoms"`
	SkippedLines []int  `json:"skipped_lines,omitempty"`
	SavedPath    string `json:"saved_path,omitempty"`
}

// Repeat uploads a monomer document and tiles it on the server.
func (c *Client) Repeat(ctx context.Context, monomer []byte, req RepeatRequest) (*RepeatResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("monomer", "monomer.xyz")
	if err != nil {
		return nil, fmt.Errorf("client: build multipart form: %w", err)
	}
	if _, err := fw.Write(monomer); err != nil {
		return nil, fmt.Errorf("client: build multipart form: %w", err)
	}

	fields := map[string]string{
		"units":   strconv.Itoa(req.Units),
		"comment": req.Comment,
		"save_as": req.SaveAs,
	}
	if req.Strict {
		fields["strict"] = "true"
	}
	if req.Offset != nil {
		fields["offset_x"] = strconv.FormatFloat(req.Offset.X, 'f', -1, 64)
		fields["offset_y"] = strconv.FormatFloat(req.Offset.Y, 'f', -1, 64)
		fields["offset_z"] = strconv.FormatFloat(req.Offset.Z, 'f', -1, 64)
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("client: build multipart form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("client: build multipart form: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/api/v1/chains/repeat", &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	var res RepeatResult
	if err := c.do(httpReq, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// InspectReport is the server's document analysis response.
type InspectReport struct {
	Comment       string         `json:"comment"`
	DeclaredCount int            `json:"declared_count"`
	AtomCount     int            `json:"atom_count"`
	Elements      map[string]int `json:"elements"`
	SkippedLines  []int          `json:"skipped_lines,omitempty"`
	BoundsMin     Vec3           `json:"bounds_min"`
	BoundsMax     Vec3           `json:"bounds_max"`
}

// Inspect analyzes an XYZ document on the server. strict makes malformed
// lines fatal instead of dropped.
func (c *Client) Inspect(ctx context.Context, data []byte, strict bool) (*InspectReport, error) {
	path := "/api/v1/xyz/inspect"
	if strict {
		path += "?strict=true"
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain")

	var report InspectReport
	if err := c.do(req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// DocumentInfo describes a document stored on the server.
type DocumentInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

type listResponse struct {
	Documents []DocumentInfo `json:"documents"`
	Count     int            `json:"count"`
}

// ListDocuments returns the stored documents.
func (c *Client) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/documents/", nil)
	if err != nil {
		return nil, err
	}
	var res listResponse
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return res.Documents, nil
}

// GetDocument returns the raw XYZ text of a stored document.
func (c *Client) GetDocument(ctx context.Context, name string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/documents/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

// DeleteDocument removes a stored document.
func (c *Client) DeleteDocument(ctx context.Context, name string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/v1/documents/"+url.PathEscape(name), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// newRequest builds a request against the configured base URL.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// postJSON sends a JSON body and decodes a JSON response.
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("client: encode request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do executes the request and decodes a successful JSON response into out.
// Non-2xx responses are returned as *APIError.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

// decodeAPIError converts an error response body into *APIError, tolerating
// bodies that are not the documented JSON shape.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
		apiErr.Code = "UNKNOWN"
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}
