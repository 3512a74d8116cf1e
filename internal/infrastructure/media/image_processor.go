// Package media provides cover image and PDF storage for the catalog.
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const coversSubdir = "covers"

// ImageProcessor handles cover image processing operations.
type ImageProcessor struct {
	basePath string // Media root, e.g. ./media
	maxWidth int    // Covers wider than this are downscaled
}

// NewImageProcessor creates a new ImageProcessor instance
func NewImageProcessor(basePath string, maxWidth int) *ImageProcessor {
	return &ImageProcessor{
		basePath: basePath,
		maxWidth: maxWidth,
	}
}

var binaryImagePattern = regexp.MustCompile(`^data:image/\w+;base64,`)

// ProcessCover decodes a base64 cover upload, downscales it to the
// configured max width, and stores it as webp under covers/. Returns the
// server-relative URL path for the stored cover.
func (p *ImageProcessor) ProcessCover(data, bookID string) (string, error) {
	if data == "" {
		return "", fmt.Errorf("empty base64 data")
	}

	if !binaryImagePattern.MatchString(data) {
		return "", fmt.Errorf("invalid cover base64 format")
	}

	b64Data := binaryImagePattern.ReplaceAllString(data, "")
	decoded, err := base64.StdEncoding.DecodeString(b64Data)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(decoded))
	if err != nil {
		return "", fmt.Errorf("failed to decode cover image: %w", err)
	}

	if img.Bounds().Dx() > p.maxWidth {
		// Resize maintaining aspect ratio
		img = imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	}

	targetDir := filepath.Join(p.basePath, coversSubdir)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create covers directory: %w", err)
	}

	filename := fmt.Sprintf("%s.webp", bookID)
	coverPath := filepath.Join(targetDir, filename)

	// Save as WebP using the webp library, NOT imaging.Save()
	if err := webp.Save(coverPath, img, &webp.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to save webp cover: %w", err)
	}

	return "/media/" + coversSubdir + "/" + filename, nil
}

// DeleteCover removes a stored cover by its URL path. Missing files are
// not an error.
func (p *ImageProcessor) DeleteCover(coverURL string) error {
	if coverURL == "" {
		return nil
	}
	if !strings.HasPrefix(coverURL, "/media/") {
		return fmt.Errorf("cover path outside media root: %s", coverURL)
	}

	fullPath := filepath.Join(p.basePath, strings.TrimPrefix(coverURL, "/media/"))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cover: %w", err)
	}
	return nil
}
