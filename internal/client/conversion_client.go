// Package client holds thin HTTP clients for external services.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CropRect is a pixel region on a rendered PDF page.
type CropRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// HTTPError is a non-2xx reply from the conversion service.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("conversion: http %d: %s", e.StatusCode, msg)
}

// ConversionClient talks to the external document-conversion service used
// to turn office documents into PDFs and to render or crop PDF pages.
type ConversionClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewConversionClient validates the base URL and builds a client.
func NewConversionClient(baseURL string) (*ConversionClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("conversion: missing base url")
	}
	return &ConversionClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// ConvertToPDF uploads a document and returns the converted PDF bytes.
func (c *ConversionClient) ConvertToPDF(ctx context.Context, filename string, file io.Reader) ([]byte, error) {
	return c.postFile(ctx, "/convert", filename, file, nil)
}

// RenderPage renders one page of an uploaded PDF as a PNG image.
// Pages are 1-based.
func (c *ConversionClient) RenderPage(ctx context.Context, filename string, pdf io.Reader, page int) ([]byte, error) {
	return c.postFile(ctx, "/render", filename, pdf, map[string]string{
		"page": strconv.Itoa(page),
	})
}

// CropRegion renders a page region of an uploaded PDF as a PNG image.
func (c *ConversionClient) CropRegion(ctx context.Context, filename string, pdf io.Reader, page int, rect CropRect) ([]byte, error) {
	return c.postFile(ctx, "/crop", filename, pdf, map[string]string{
		"page":   strconv.Itoa(page),
		"x":      strconv.Itoa(rect.X),
		"y":      strconv.Itoa(rect.Y),
		"width":  strconv.Itoa(rect.Width),
		"height": strconv.Itoa(rect.Height),
	})
}

// postFile sends a multipart request with one file part plus form fields and
// returns the raw response body.
func (c *ConversionClient) postFile(
	ctx context.Context,
	path, filename string,
	file io.Reader,
	fields map[string]string,
) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("conversion: read input: %w", err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversion: request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("conversion: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: string(payload)}
	}
	return payload, nil
}
