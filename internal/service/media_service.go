package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/stemsi/qpaper-backend/internal/config"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Detected MIME type to the stored extension.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// maxNameAttempts bounds the search for a free timestamp name.
const maxNameAttempts = 100

// Upload describes a stored file.
type Upload struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

// MediaService stores images embedded in question markup.
type MediaService struct {
	cfg *config.Config
	log zerolog.Logger
	now func() time.Time
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config, log zerolog.Logger) *MediaService {
	return &MediaService{
		cfg: cfg,
		log: log.With().Str("component", "media_service").Logger(),
		now: time.Now,
	}
}

// SaveUpload stores file under UploadDir as <unix millis><ext>. The content
// must sniff as an allowed image and ext follows the sniffed type, never the
// client's file name. If the name is taken the timestamp is bumped until a
// free one is found.
func (s *MediaService) SaveUpload(file multipart.File, header *multipart.FileHeader) (*Upload, error) {
	if header.Size > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("detect type: %w", err)
	}
	contentType := strings.SplitN(mtype.String(), ";", 2)[0]
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	if client := strings.ToLower(filepath.Ext(header.Filename)); client != "" && client != ext {
		s.log.Warn().Str("client_ext", client).Str("type", contentType).Msg("Upload extension does not match content, using detected type")
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	dst, name, err := s.createUnique(ext)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err == nil && written > s.cfg.MaxUploadBytes {
		err = fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.cfg.MaxUploadBytes)
	}
	if err != nil {
		dst.Close()
		_ = os.Remove(filepath.Join(s.cfg.UploadDir, name))
		if errors.Is(err, ErrFileTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write file: %w", err)
	}

	s.log.Info().Str("file", name).Str("type", contentType).Int64("bytes", written).Msg("Upload stored")
	return &Upload{FileName: name, URL: "/uploads/" + name}, nil
}

func (s *MediaService) createUnique(ext string) (*os.File, string, error) {
	stamp := s.now().UnixMilli()
	for i := 0; i < maxNameAttempts; i++ {
		name := strconv.FormatInt(stamp+int64(i), 10) + ext
		f, err := os.OpenFile(filepath.Join(s.cfg.UploadDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("create file: %w", err)
		}
	}
	return nil, "", fmt.Errorf("create file: no free name after %d attempts", maxNameAttempts)
}
