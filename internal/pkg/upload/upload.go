// Package upload validates multipart files and hands them to a FileStorage.
package upload

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/coursemate/backend/internal/pkg/apperrors"
	"github.com/coursemate/backend/internal/pkg/filestorage"
	"github.com/coursemate/backend/internal/pkg/logger"
	"github.com/coursemate/backend/internal/pkg/metrics"
	"github.com/gabriel-vasile/mimetype"
)

// Kind selects the allow-list and destination for an upload
type Kind string

const (
	KindResource Kind = "resource"
	KindAvatar   Kind = "avatar"
)

// AvatarDir is the storage subdirectory for profile pictures
const AvatarDir = "avatars"

// User-facing rejection messages
const (
	MsgNoFile            = "No file uploaded"
	MsgNoAvatar          = "No avatar file uploaded"
	MsgInvalidType       = "Invalid file type. Only PDF, DOC, DOCX, PPT, PPTX, XLS, XLSX, TXT, JPG, PNG, MP4, AVI, MOV, WMV, FLV, and MKV files are allowed."
	MsgInvalidAvatarType = "Invalid file type for avatar. Only JPG, PNG, and GIF files are allowed."
	MsgTypeMismatch      = "File extension does not match its content type"
	MsgContentNotAllowed = "File content is not allowed"
)

var resourceExtensions = []string{
	".pdf", ".doc", ".docx", ".ppt", ".pptx", ".xls", ".xlsx", ".txt",
	".jpg", ".jpeg", ".png", ".mp4", ".avi", ".mov", ".wmv", ".flv", ".mkv",
}

var avatarExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// mimeExtensions maps a declared content type to the extensions it may carry
var mimeExtensions = map[string][]string{
	"application/pdf":    {".pdf"},
	"application/msword": {".doc"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {".docx"},
	"application/vnd.ms-powerpoint":                                             {".ppt"},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {".pptx"},
	"application/vnd.ms-excel":                                                  {".xls"},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {".xlsx"},
	"text/plain":       {".txt"},
	"image/jpeg":       {".jpg", ".jpeg"},
	"image/png":        {".png"},
	"image/gif":        {".gif"},
	"video/mp4":        {".mp4"},
	"video/avi":        {".avi"},
	"video/x-msvideo":  {".avi"},
	"video/quicktime":  {".mov"},
	"video/x-ms-wmv":   {".wmv"},
	"video/x-flv":      {".flv"},
	"video/x-matroska": {".mkv"},
}

// executableTypes are refused whatever name or declared type they arrive with
var executableTypes = []string{
	"application/x-msdownload",
	"application/vnd.microsoft.portable-executable",
	"application/x-elf",
	"application/x-executable",
	"application/x-mach-binary",
	"application/x-sharedlib",
}

// Handler checks uploads and persists accepted files
type Handler struct {
	storage  filestorage.FileStorage
	maxBytes int64
	now      func() time.Time
}

// NewHandler creates a Handler that refuses files above maxBytes
func NewHandler(storage filestorage.FileStorage, maxBytes int64) *Handler {
	return &Handler{
		storage:  storage,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Accept validates fh for the given kind and stores it under a generated name.
// Rejections are returned as bad-request errors carrying the message to show.
func (h *Handler) Accept(ctx context.Context, fh *multipart.FileHeader, kind Kind) (*filestorage.StoredFile, error) {
	stored, err := h.accept(ctx, fh, kind)
	switch {
	case err == nil:
		metrics.RecordUpload(string(kind), metrics.ResultAccepted)
	case apperrors.Is(err, apperrors.ErrBadRequest):
		metrics.RecordUpload(string(kind), metrics.ResultRejected)
	default:
		metrics.RecordUpload(string(kind), metrics.ResultFailed)
	}
	return stored, err
}

func (h *Handler) accept(ctx context.Context, fh *multipart.FileHeader, kind Kind) (*filestorage.StoredFile, error) {
	if fh == nil {
		if kind == KindAvatar {
			return nil, apperrors.NewBadRequestError(MsgNoAvatar)
		}
		return nil, apperrors.NewBadRequestError(MsgNoFile)
	}

	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("File too large. Maximum size is %dMB", h.maxBytes/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType := declaredType(fh)
	if err := checkType(kind, ext, contentType); err != nil {
		logger.Warn().Str("filename", fh.Filename).Str("contentType", contentType).Str("kind", string(kind)).Msg("Upload rejected")
		return nil, err
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect uploaded file: %w", err)
	}
	if isExecutable(detected) {
		logger.Warn().Str("filename", fh.Filename).Str("detected", detected.String()).Msg("Upload rejected: executable content")
		return nil, apperrors.NewBadRequestError(MsgContentNotAllowed)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	filename, err := h.generateFilename(ext)
	if err != nil {
		return nil, err
	}

	subdir := ""
	if kind == KindAvatar {
		subdir = AvatarDir
	}

	stored, err := h.storage.Save(ctx, subdir, filename, file, fh.Size, contentType)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("original", fh.Filename).
		Str("path", stored.Path).
		Int64("size", stored.Size).
		Msg("Upload stored")
	return stored, nil
}

// Delete removes a previously stored file
func (h *Handler) Delete(ctx context.Context, path string) error {
	return h.storage.Delete(ctx, path)
}

func checkType(kind Kind, ext, contentType string) error {
	allowed, invalidMsg := resourceExtensions, MsgInvalidType
	if kind == KindAvatar {
		allowed, invalidMsg = avatarExtensions, MsgInvalidAvatarType
	}

	if !slices.Contains(allowed, ext) {
		return apperrors.NewBadRequestError(invalidMsg)
	}

	exts, known := mimeExtensions[contentType]
	if !known {
		return apperrors.NewBadRequestError(invalidMsg)
	}
	if !slices.Contains(exts, ext) {
		return apperrors.NewBadRequestError(MsgTypeMismatch)
	}
	return nil
}

func declaredType(fh *multipart.FileHeader) string {
	raw := fh.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return mediaType
}

func isExecutable(detected *mimetype.MIME) bool {
	for m := detected; m != nil; m = m.Parent() {
		for _, t := range executableTypes {
			if m.Is(t) {
				return true
			}
		}
	}
	return false
}

// generateFilename returns hex(16 random bytes)-unixMillis.ext
func (h *Handler) generateFilename(ext string) (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate filename: %w", err)
	}
	return hex.EncodeToString(raw) + "-" + strconv.FormatInt(h.now().UnixMilli(), 10) + ext, nil
}
