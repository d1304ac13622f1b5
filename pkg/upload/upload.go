package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

var (
	ErrNilFileHeader   = errors.New("file header is nil")
	ErrInvalidPath     = errors.New("invalid storage path")
	ErrInvalidConfig   = errors.New("invalid storage config")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrNotAnImage      = errors.New("file is not an allowed image type")
	ErrFileNotFound    = errors.New("file not found")
	ErrStorageFailure  = errors.New("storage operation failed")
)

// Stored describes a successfully stored file.
type Stored struct {
	Filename string
	Key      string
	Size     int64
	MIMEType string
}

// Storage persists uploaded files under opaque keys.
type Storage interface {
	Save(ctx context.Context, fh *multipart.FileHeader, key string) (*Stored, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

var imageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateImage checks size and sniffed content type before a profile
// picture is handed to a Storage backend. Content is sniffed from the
// first 512 bytes so a renamed extension cannot smuggle other formats in.
func ValidateImage(fh *multipart.FileHeader, maxBytes int64) error {
	if fh == nil {
		return ErrNilFileHeader
	}
	if fh.Size > maxBytes {
		return fmt.Errorf("%w: %d bytes over %d limit", ErrFileTooLarge, fh.Size, maxBytes)
	}

	mimeType, err := DetectMIMEType(fh)
	if err != nil {
		return err
	}
	if !imageMIMETypes[mimeType] {
		return fmt.Errorf("%w: detected %s", ErrNotAnImage, mimeType)
	}
	return nil
}

// DetectMIMEType sniffs the content type from the file's leading bytes.
func DetectMIMEType(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}

	f, err := fh.Open()
	if err != nil {
		return "", errors.Join(ErrStorageFailure, err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", errors.Join(ErrStorageFailure, err)
	}
	return http.DetectContentType(buf[:n]), nil
}

// SanitizeFilename strips path components and NUL bytes from a
// client-supplied filename.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "" || filename == "." || filename == ".." || filename == "/" {
		filename = "unnamed"
	}
	return filename
}

// cleanKey normalizes a storage key and rejects traversal attempts.
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(filepath.ToSlash(key), "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	return key, nil
}
