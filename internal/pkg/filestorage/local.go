package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/meritbook/meritbook/internal/pkg/apperrors"
	"github.com/meritbook/meritbook/internal/pkg/logger"
)

// LocalStorage saves certificate uploads to the local filesystem.
type LocalStorage struct {
	basePath    string
	maxSize     int64
	allowedExts map[string]struct{}
}

// NewLocalStorage creates a LocalStorage rooted at basePath. The directory is
// created if missing. allowedExts are lowercase extensions without the dot.
func NewLocalStorage(basePath string, maxSize int64, allowedExts []string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	exts := make(map[string]struct{}, len(allowedExts))
	for _, e := range allowedExts {
		exts[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))] = struct{}{}
	}

	return &LocalStorage{
		basePath:    basePath,
		maxSize:     maxSize,
		allowedExts: exts,
	}, nil
}

// AllowedExtension reports whether the filename carries an extension from the
// configured allow-list.
func (ls *LocalStorage) AllowedExtension(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := ls.allowedExts[ext]
	return ok
}

// SaveCertificate validates and writes an uploaded certificate file, returning
// the relative path to store alongside the achievement record. The stored name
// combines a nanosecond timestamp with the sanitized original filename so
// concurrent uploads of the same file cannot collide.
func (ls *LocalStorage) SaveCertificate(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	if !ls.AllowedExtension(fileHeader.Filename) {
		return "", apperrors.ErrFileTypeNotAllowed
	}
	if ls.maxSize > 0 && fileHeader.Size > ls.maxSize {
		return "", apperrors.ErrFileTooLarge
	}

	safeName, err := SanitizeFilename(fileHeader.Filename)
	if err != nil {
		return "", err
	}
	storedName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), safeName)

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dstPath := filepath.Join(ls.basePath, storedName)
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", storedName).Msg("Certificate saved")
	return "uploads/" + storedName, nil
}

// SanitizeFilename strips directory components and rejects names that could
// escape the upload directory. Only letters, digits, dots, dashes and
// underscores survive; everything else becomes an underscore.
func SanitizeFilename(name string) (string, error) {
	// Drop any client-supplied directory part, on either separator style.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || name == "." || name == ".." || strings.Contains(name, "..") {
		return "", apperrors.ErrUnsafeFilename
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "", apperrors.ErrUnsafeFilename
	}
	return cleaned, nil
}
