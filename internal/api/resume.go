package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadResume sends a resume as the multipart field "file". Callers are
// expected to validate the file first; the backend enforces the same limits.
func (c *Client) UploadResume(ctx context.Context, filename, contentType string, r io.Reader) (*models.UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	var out models.UploadResponse
	req := request{
		method:      http.MethodPost,
		path:        PathUploadResume,
		body:        &buf,
		contentType: mw.FormDataContentType(),
		auth:        true,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessingStatus returns the current stage of the resume pipeline.
func (c *Client) ProcessingStatus(ctx context.Context) (*models.ProcessingStatusResponse, error) {
	var out models.ProcessingStatusResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: PathProcessingStatus, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
