package cloudinary

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client wraps Cloudinary upload, optimized delivery and deletion for listing images.
type Client interface {
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error)
	DeleteByURL(ctx context.Context, url string) error
}

// Optimized image params for fast frontend loading
const (
	ImageWidth = 800
	ThumbWidth = 200
	imageEager = "q_auto,f_auto,w_800,c_fill"
)

var eagerAsyncFalse = false

// BuildOptimizedImageURL returns a delivery URL with transformations applied.
func BuildOptimizedImageURL(cloudName, publicID string, width int) string {
	if width <= 0 {
		width = ImageWidth
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_auto,w_%d,c_fill/%s",
		cloudName, width, publicID)
}

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

// UploadImage uploads with eager optimizations (auto quality/format, resize).
func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", "", err
	}
	url = result.SecureURL
	if len(result.Eager) > 0 {
		thumbnailURL = result.Eager[0].SecureURL
	}
	if thumbnailURL == "" {
		thumbnailURL = BuildOptimizedImageURL(c.cloudName, result.PublicID, ThumbWidth)
	}
	return url, thumbnailURL, nil
}

// Delivery URLs look like .../upload/v1234/<folder>/<public_id>.<ext>; the public ID
// is everything after the version segment, without the extension.
var versionSegment = regexp.MustCompile(`^v\d+$`)

// PublicIDFromURL extracts the public ID (folder included) from a delivery URL.
func PublicIDFromURL(url string) string {
	parts := strings.Split(url, "/upload/")
	if len(parts) != 2 {
		return ""
	}
	segs := strings.Split(parts[1], "/")
	for len(segs) > 0 && (versionSegment.MatchString(segs[0]) || strings.Contains(segs[0], ",")) {
		segs = segs[1:] // skip version and transformation segments
	}
	id := strings.Join(segs, "/")
	if i := strings.LastIndex(id, "."); i > 0 {
		id = id[:i]
	}
	return id
}

// DeleteByURL destroys the asset a delivery URL points at. Used when a listing is
// removed so its images do not linger.
func (c *clientImpl) DeleteByURL(ctx context.Context, url string) error {
	publicID := PublicIDFromURL(url)
	if publicID == "" {
		return fmt.Errorf("cloudinary: cannot derive public id from %q", url)
	}
	_, err := c.uploader.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// NewClientFromParams builds a Client from cloud name, API key and secret.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{cloudName: cloudName, uploader: up}, nil
}
