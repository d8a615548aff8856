package media

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    File
		wantExt string
		wantErr error
	}{
		{"jpeg", File{ContentType: "image/jpeg", Size: 10}, ".jpg", nil},
		{"jpg alias", File{ContentType: "image/jpg", Size: 10}, ".jpg", nil},
		{"png with params", File{ContentType: "image/PNG; charset=binary", Size: 10}, ".png", nil},
		{"webp at limit", File{ContentType: "image/webp", Size: MaxBytes}, ".webp", nil},
		{"gif", File{ContentType: "image/gif", Size: 10}, "", ErrTypeUnsupported},
		{"empty type", File{Size: 10}, "", ErrTypeUnsupported},
		{"too large", File{ContentType: "image/png", Size: MaxBytes + 1}, "", ErrTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ext, err := Validate(tc.file)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if ext != tc.wantExt {
				t.Fatalf("ext = %q, want %q", ext, tc.wantExt)
			}
		})
	}
}

func TestPublicID(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1760000000123)
	tests := map[string]string{
		"beach party.png":       "1760000000123-beach-party",
		`C:\Users\me\photo.JPG`: "1760000000123-photo",
		"../../etc/passwd":      "1760000000123-passwd",
		"":                      "1760000000123-image",
		"###.webp":              "1760000000123-image",
	}
	for input, want := range tests {
		if got := PublicID(now, input); got != want {
			t.Fatalf("PublicID(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDiskUploadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	disk, err := NewDisk(dir, "http://localhost:8081/")
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}
	uploader := NewUploader(disk, nil)
	uploader.now = func() time.Time { return time.UnixMilli(42) }

	url, err := uploader.Upload(context.Background(), &File{
		Filename:    "flyer.png",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("\x89PNG"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if want := "http://localhost:8081/media/event_manager/events/42-flyer.png"; url != want {
		t.Fatalf("url = %q, want %q", url, want)
	}
	data, err := os.ReadFile(filepath.Join(dir, "event_manager", "events", "42-flyer.png"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "\x89PNG" {
		t.Fatalf("stored = %q", data)
	}
}

func TestUploadNilFileIsNoop(t *testing.T) {
	t.Parallel()

	url, err := NewUploader(nil, nil).Upload(context.Background(), nil)
	if err != nil || url != "" {
		t.Fatalf("Upload(nil) = %q, %v", url, err)
	}
}

type failingBackend struct{}

func (failingBackend) Save(context.Context, Object) (string, error) {
	return "", errors.New("network down")
}

func TestUploadBackendFailure(t *testing.T) {
	t.Parallel()

	_, err := NewUploader(failingBackend{}, nil).Upload(context.Background(), &File{
		Filename:    "a.png",
		ContentType: "image/png",
		Size:        1,
		Body:        bytes.NewReader([]byte{1}),
	})
	if got := apperrors.CodeOf(err); got != apperrors.CodeMediaUploadFailed {
		t.Fatalf("code = %s, want %s", got, apperrors.CodeMediaUploadFailed)
	}
}

func TestDiskRejectsOversizedBody(t *testing.T) {
	t.Parallel()

	disk, err := NewDisk(t.TempDir(), "")
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}
	// Size was under-reported; the body is still capped.
	_, err = NewUploader(disk, nil).Upload(context.Background(), &File{
		Filename:    "big.png",
		ContentType: "image/png",
		Size:        1,
		Body:        bytes.NewReader(make([]byte, MaxBytes+10)),
	})
	if apperrors.CodeOf(err) != apperrors.CodeMediaUploadFailed {
		t.Fatalf("err = %v, want upload failure", err)
	}
}

func TestCloudinaryConfigEnabled(t *testing.T) {
	t.Parallel()

	if (CloudinaryConfig{}).Enabled() {
		t.Fatal("empty config should be disabled")
	}
	if !(CloudinaryConfig{URL: "cloudinary://k:s@demo"}).Enabled() {
		t.Fatal("url config should be enabled")
	}
	if (CloudinaryConfig{CloudName: "demo", APIKey: "k"}).Enabled() {
		t.Fatal("partial config should be disabled")
	}
}
