package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize bounds uploads before they are sent.
const MaxImageSize = 5 << 20

var (
	// ErrNotImage is returned when the upload content is not an image.
	ErrNotImage = errors.New("api: upload is not an image")
	// ErrImageTooLarge is returned when the upload exceeds MaxImageSize.
	ErrImageTooLarge = errors.New("api: image too large")
)

// UploadImage sends an image as multipart form data and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("api: read upload: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", ErrImageTooLarge
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	header.Set("Content-Type", mt.String())
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("api: build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("api: build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("api: build upload: %w", err)
	}

	var out struct {
		URL string `json:"url"`
	}
	err = c.do(ctx, call{
		op:          "uploads.image",
		method:      http.MethodPost,
		endpoint:    "/uploads/image",
		body:        &buf,
		contentType: mw.FormDataContentType(),
		auth:        true,
	}, &out)
	return out.URL, err
}
