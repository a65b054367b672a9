package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"anoa.com/hennahub/pkg/apperror"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageFile is an uploaded image handed from a handler to a service.
type ImageFile struct {
	Reader   io.Reader
	FileName string
}

// ImageStorage defines contract for image storage provider (Cloudinary implementation).
type ImageStorage interface {
	// UploadImage uploads image from reader and returns the secure URL.
	// folder is a logical sub-folder (e.g. "designs", "profiles").
	UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	// DeleteImage deletes image from storage using its URL.
	DeleteImage(ctx context.Context, fileURL string) error
}

var ErrStorageDisabled = errors.New("image storage is not configured")

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// CheckImageName rejects files that are not images by extension.
func CheckImageName(fileName string) error {
	if !allowedExtensions[strings.ToLower(filepath.Ext(fileName))] {
		return fmt.Errorf("unsupported image type %q: %w", filepath.Ext(fileName), apperror.ErrInvalidInput)
	}
	return nil
}

type cloudinaryStorage struct {
	cld        *cloudinary.Cloudinary
	rootFolder string
}

// NewCloudinaryStorage creates Cloudinary-backed implementation of ImageStorage.
// Without CLOUDINARY_URL it returns a storage that refuses uploads.
func NewCloudinaryStorage(rootFolder string) (ImageStorage, error) {
	if os.Getenv("CLOUDINARY_URL") == "" {
		return disabledStorage{}, nil
	}

	// cloudinary.New() reads CLOUDINARY_URL from environment.
	cld, err := cloudinary.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true

	return &cloudinaryStorage{cld: cld, rootFolder: rootFolder}, nil
}

func (s *cloudinaryStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if err := CheckImageName(fileName); err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	params := uploader.UploadParams{
		Folder:         strings.Trim(s.rootFolder+"/"+folder, "/"),
		PublicID:       fmt.Sprintf("%d-%s", time.Now().UnixNano(), base),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
		Format:         "webp",
		Transformation: "q_auto",
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload image to cloudinary: %w", err)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}

	return resp.SecureURL, nil
}

func (s *cloudinaryStorage) DeleteImage(ctx context.Context, fileURL string) error {
	publicID := PublicIDFromURL(fileURL)
	if publicID == "" {
		return fmt.Errorf("could not extract public ID from URL: %s", fileURL)
	}

	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from cloudinary: %w", err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy api returned result: %s", resp.Result)
	}
	return nil
}

// PublicIDFromURL extracts the public ID from a Cloudinary delivery URL.
// https://res.cloudinary.com/demo/image/upload/v123/hennahub/designs/a.webp -> hennahub/designs/a
func PublicIDFromURL(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return ""
	}

	parts := strings.Split(u.Path, "/")
	start := -1
	for i, p := range parts {
		if p == "upload" {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(parts) {
		return ""
	}

	rest := parts[start:]
	if len(rest) > 1 && isVersionSegment(rest[0]) {
		rest = rest[1:]
	}

	publicID := strings.Join(rest, "/")
	return strings.TrimSuffix(publicID, filepath.Ext(publicID))
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type disabledStorage struct{}

func (disabledStorage) UploadImage(context.Context, io.Reader, string, string) (string, error) {
	return "", fmt.Errorf("%w: %w", ErrStorageDisabled, apperror.ErrInvalidInput)
}

func (disabledStorage) DeleteImage(context.Context, string) error {
	return nil
}
