package utils

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum upload size (5MB)
	maxFileSize = 5 * 1024 * 1024

	thumbnailWidth = 400
)

// Allowed image extensions
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// cleanFilename removes any potentially dangerous characters from the filename
func cleanFilename(filename string) string {
	filename = filepath.Base(filename)
	reg := regexp.MustCompile(`[^a-zA-Z0-9.-]`)
	return reg.ReplaceAllString(filename, "")
}

// ValidateImageType checks if the file extension is an allowed image format
func ValidateImageType(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif, webp")
	}
	return nil
}

// InitializeStorage creates the directories used for file storage
func InitializeStorage() error {
	dirs := []string{
		uploadBaseDir,
		filepath.Join(uploadBaseDir, "properties"),
		filepath.Join(uploadBaseDir, "thumbnails"),
		filepath.Join(uploadBaseDir, "profiles"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return nil
}

// UploadImage saves an image under uploads/<subdir>/ and returns its URL
func UploadImage(fileData []byte, filename, subdir string) (string, error) {
	if len(fileData) > maxFileSize {
		return "", fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}

	cleanName := cleanFilename(filename)
	if err := ValidateImageType(cleanName); err != nil {
		return "", err
	}

	if err := InitializeStorage(); err != nil {
		return "", err
	}

	// Timestamp prefix keeps names unique without a DB round trip
	storedName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), cleanName)
	fullPath := filepath.Join(uploadBaseDir, subdir, storedName)

	if err := os.WriteFile(fullPath, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	return fmt.Sprintf("%s/%s/%s", baseURL, subdir, storedName), nil
}

// GenerateThumbnail produces a resized JPEG copy of an uploaded image and
// returns its URL
func GenerateThumbnail(fileData []byte, filename string) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(fileData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}

	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %v", err)
	}

	base := strings.TrimSuffix(cleanFilename(filename), filepath.Ext(filename))
	storedName := fmt.Sprintf("%d_%s_thumb.jpg", time.Now().UnixNano(), base)

	if err := InitializeStorage(); err != nil {
		return "", err
	}

	fullPath := filepath.Join(uploadBaseDir, "thumbnails", storedName)
	if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %v", err)
	}

	return fmt.Sprintf("%s/thumbnails/%s", baseURL, storedName), nil
}

// DeleteFile removes a previously uploaded file given its URL
func DeleteFile(fileURL string) error {
	if fileURL == "" || !strings.HasPrefix(fileURL, baseURL+"/") {
		return nil
	}
	relPath := strings.TrimPrefix(fileURL, baseURL+"/")
	fullPath := filepath.Join(uploadBaseDir, filepath.FromSlash(relPath))

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}
