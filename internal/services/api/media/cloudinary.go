package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryConfig selects a Cloudinary account, either by URL or by parts.
type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
}

// Enabled reports whether enough settings are present to connect.
func (c CloudinaryConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != "" ||
		(strings.TrimSpace(c.CloudName) != "" && strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.APISecret) != "")
}

// Cloudinary stores images on Cloudinary.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary connects to the configured account.
func NewCloudinary(cfg CloudinaryConfig) (*Cloudinary, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if url := strings.TrimSpace(cfg.URL); url != "" {
		cld, err = cloudinary.NewFromURL(url)
	} else {
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("configure cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

// Save uploads obj and returns its HTTPS URL.
func (c *Cloudinary) Save(ctx context.Context, obj Object) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, obj.Body, uploader.UploadParams{
		Folder:   obj.Folder,
		PublicID: obj.PublicID,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload: empty url")
	}
	return resp.SecureURL, nil
}

var _ Backend = (*Cloudinary)(nil)
