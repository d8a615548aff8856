// Package media validates and stores event images.
package media

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/platform/timeouts"
)

const (
	// MaxBytes is the largest accepted image.
	MaxBytes = 5 << 20
	// Folder groups event images in every backend.
	Folder = "event_manager/events"
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var (
	// ErrTypeUnsupported indicates a non-image upload.
	ErrTypeUnsupported = apperrors.New(apperrors.CodeMediaTypeUnsupported, "only jpeg, png and webp images are accepted")
	// ErrTooLarge indicates an image over MaxBytes.
	ErrTooLarge = apperrors.WithMetadata(apperrors.CodeMediaTooLarge, "image is too large",
		map[string]string{"MaxMB": strconv.Itoa(MaxBytes >> 20)})
)

// File is one uploaded image.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Object is a validated file ready for a backend.
type Object struct {
	Folder    string
	PublicID  string
	Extension string
	Body      io.Reader
}

// Backend persists objects and returns their public URL.
type Backend interface {
	Save(ctx context.Context, obj Object) (string, error)
}

// Uploader validates files and hands them to a Backend.
type Uploader struct {
	backend Backend
	now     func() time.Time
	logger  *zap.Logger
}

// NewUploader wraps backend.
func NewUploader(backend Backend, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{backend: backend, now: time.Now, logger: logger}
}

// Validate checks type and size and returns the file extension to use.
func Validate(file File) (string, error) {
	mediaType, _, err := mime.ParseMediaType(file.ContentType)
	if err != nil {
		return "", ErrTypeUnsupported
	}
	ext, ok := allowedTypes[strings.ToLower(mediaType)]
	if !ok {
		return "", ErrTypeUnsupported
	}
	if file.Size > MaxBytes {
		return "", ErrTooLarge
	}
	return ext, nil
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// PublicID names an upload "<unix-ms>-<basename>".
func PublicID(now time.Time, filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Trim(unsafeName.ReplaceAllString(base, "-"), "-")
	if base == "" || base == "." {
		base = "image"
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + base
}

// Upload stores file and returns its URL. A nil file is not an error and
// yields an empty URL.
func (u *Uploader) Upload(ctx context.Context, file *File) (string, error) {
	if file == nil {
		return "", nil
	}
	ext, err := Validate(*file)
	if err != nil {
		return "", err
	}
	if u == nil || u.backend == nil {
		return "", apperrors.New(apperrors.CodeMediaUploadFailed, "image storage is not configured")
	}
	obj := Object{
		Folder:    Folder,
		PublicID:  PublicID(u.now(), file.Filename),
		Extension: ext,
		Body:      io.LimitReader(file.Body, MaxBytes+1),
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Upload)
	defer cancel()
	url, err := u.backend.Save(ctx, obj)
	if err != nil {
		u.logger.Error("image upload failed", zap.String("public_id", obj.PublicID), zap.Error(err))
		return "", apperrors.Wrap(apperrors.CodeMediaUploadFailed, "image upload failed", err)
	}
	return url, nil
}
