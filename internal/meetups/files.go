package meetups

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

	"github.com/rockrashit19/Duslar/internal/api"
)

// MaxUploadSize is the largest file the API accepts.
const MaxUploadSize = 10 << 20

var (
	// ErrUnsupportedFile is returned for files that are not accepted images.
	ErrUnsupportedFile = errors.New("only .jpg, .jpeg, .png and .webp images are allowed")

	// ErrFileTooLarge is returned for files over MaxUploadSize.
	ErrFileTooLarge = errors.New("file too large")
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Files covers /files.
type Files struct {
	client *api.Client
}

// Upload stores an image and returns its public URL. name only decides the
// extension and the filename the server sees.
func (s *Files) Upload(ctx context.Context, name string, r io.Reader) (*Upload, error) {
	ext := strings.ToLower(filepath.Ext(name))
	contentType, ok := imageTypes[ext]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFile)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("%s: %w (max %d MiB)", name, ErrFileTooLarge, MaxUploadSize>>20)
	}
	if sniffed := http.DetectContentType(data); !strings.HasPrefix(sniffed, "image/") && sniffed != "application/octet-stream" {
		return nil, fmt.Errorf("%s: %w (content is %s)", name, ErrUnsupportedFile, sniffed)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(name)))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("creating multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("creating multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("creating multipart body: %w", err)
	}

	var out Upload
	err = s.client.DoJSON(ctx, http.MethodPost, "/files/upload", nil, &out,
		api.WithRawBody(bytes.NewReader(body.Bytes()), mw.FormDataContentType()))
	if err != nil {
		return nil, err
	}
	return &out, nil
}
