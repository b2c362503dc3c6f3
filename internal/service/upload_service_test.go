package service

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"linkup/internal/config"
	"linkup/internal/models"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestUploadService(t *testing.T) (*UploadService, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewUploadService(&config.Config{
		UploadDir:     dir,
		PublicBaseURL: "http://localhost:5000",
	})
	return svc, dir
}

func TestUploadServiceSaveImage(t *testing.T) {
	svc, dir := newTestUploadService(t)

	url, err := svc.SaveImage(UploadImageInput{
		UserID:      1,
		Filename:    "avatar.png",
		ContentType: "image/png",
		Content:     pngBytes(t),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(url, "http://localhost:5000/uploads/") {
		t.Fatalf("unexpected url %q", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Fatalf("expected .png extension, got %q", url)
	}

	// The file lands on disk under the generated name.
	name := filepath.Base(url)
	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
}

func TestUploadServiceRejectsNonImage(t *testing.T) {
	svc, _ := newTestUploadService(t)

	_, err := svc.SaveImage(UploadImageInput{
		UserID:      1,
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Content:     []byte("definitely not an image"),
	})
	assertAppErrCode(t, err, models.CodeValidation)
}

func TestUploadServiceRejectsSpoofedHeader(t *testing.T) {
	svc, _ := newTestUploadService(t)

	// A PNG magic number with garbage after it passes the MIME sniff
	// but fails the decode.
	payload := append([]byte("\x89PNG\r\n\x1a\n"), []byte("not a real image body")...)
	_, err := svc.SaveImage(UploadImageInput{
		UserID:      1,
		Filename:    "fake.png",
		ContentType: "image/png",
		Content:     payload,
	})
	assertAppErrCode(t, err, models.CodeValidation)
}

func TestUploadServiceRejectsEmptyAndOversized(t *testing.T) {
	svc, _ := newTestUploadService(t)

	_, err := svc.SaveImage(UploadImageInput{UserID: 1, Filename: "empty.png"})
	assertAppErrCode(t, err, models.CodeValidation)

	huge := make([]byte, DefaultMaxUploadSizeMB*1024*1024+1)
	_, err = svc.SaveImage(UploadImageInput{
		UserID:   1,
		Filename: "huge.png",
		Content:  huge,
	})
	assertAppErrCode(t, err, models.CodeValidation)
}
