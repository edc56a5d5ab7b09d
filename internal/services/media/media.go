package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrInvalidFile    = errors.New("invalid file type")
	ErrFileTooLarge   = errors.New("file too large")
	ErrObjectNotFound = errors.New("object not found")
)

const sniffLen = 512

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Storage keeps screenshot objects.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (Object, error)
	Delete(ctx context.Context, key string) error
}

type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Upload is an attached file as received from the client.
type Upload struct {
	FileName string
	Body     io.Reader
	Size     int64
}

// Image is an Upload that passed Inspect.
type Image struct {
	Body        io.Reader
	Size        int64
	ContentType string
}

// Inspect sniffs the content type from the first bytes of the upload. The
// declared content type is ignored.
func Inspect(up Upload, maxBytes int64) (Image, error) {
	if up.Body == nil || up.Size <= 0 {
		return Image{}, ErrValidation
	}
	if maxBytes > 0 && up.Size > maxBytes {
		return Image{}, ErrFileTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(up.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Image{}, fmt.Errorf("read upload header: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if _, ok := allowedTypes[contentType]; !ok {
		return Image{}, ErrInvalidFile
	}

	return Image{
		Body:        io.MultiReader(bytes.NewReader(head), up.Body),
		Size:        up.Size,
		ContentType: contentType,
	}, nil
}

// ObjectKey builds a date-partitioned key whose extension matches contentType.
func ObjectKey(contentType string, now time.Time) (string, error) {
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", ErrInvalidFile
	}
	return fmt.Sprintf("screenshots/%s/%s%s", now.UTC().Format("20060102"), uuid.NewString(), ext), nil
}

func contentTypeForExt(ext string) string {
	for ct, e := range allowedTypes {
		if e == ext {
			return ct
		}
	}
	return "application/octet-stream"
}
