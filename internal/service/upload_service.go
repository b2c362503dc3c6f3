package service

import (
	"bytes"
	"fmt"
	"image"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"linkup/internal/config"
	"linkup/internal/models"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // Register WebP decoder

	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
)

const (
	DefaultUploadDir       = "/tmp/linkup/uploads"
	DefaultMaxUploadSizeMB = 5
)

// UploadImageInput carries a raw uploaded file into the service.
type UploadImageInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// UploadService validates and stores uploaded post images on disk.
type UploadService struct {
	uploadDir          string
	publicBaseURL      string
	maxUploadSizeBytes int64
}

// NewUploadService returns a new UploadService configured from cfg.
func NewUploadService(cfg *config.Config) *UploadService {
	uploadDir := DefaultUploadDir
	if cfg != nil && cfg.UploadDir != "" {
		uploadDir = cfg.UploadDir
	}
	var baseURL string
	if cfg != nil {
		baseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	return &UploadService{
		uploadDir:          uploadDir,
		publicBaseURL:      baseURL,
		maxUploadSizeBytes: DefaultMaxUploadSizeMB * 1024 * 1024,
	}
}

// SaveImage validates the uploaded bytes as a real image and writes them to
// the upload directory under a generated name. Returns the public URL.
func (s *UploadService) SaveImage(in UploadImageInput) (string, error) {
	if in.UserID == 0 {
		return "", models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return "", models.NewValidationError("Invalid image type")
	}

	// Decode to prove the payload is a real image, not just a spoofed header
	_, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	name := uuid.NewString() + extensionForFormat(format)
	fullPath := filepath.Join(s.uploadDir, name)
	if err := writeBytesToFile(fullPath, in.Content); err != nil {
		return "", models.NewInternalError(err)
	}

	return s.publicBaseURL + "/uploads/" + name, nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func extensionForFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return ".jpg"
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	case "webp":
		return ".webp"
	default:
		return ".bin"
	}
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
