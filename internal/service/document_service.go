package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/payhub/payhub-backend/internal/client"
	"github.com/payhub/payhub-backend/internal/config"
	"github.com/rs/zerolog"
)

// Sentinel errors for document uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrDocumentNotFound    = errors.New("document not found")
)

// Accepted upload MIME types. Office documents are converted to PDF on
// upload so the rest of the system only ever deals with PDFs and images.
var allowedMIMETypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/vnd.ms-excel": ".xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// convertibleTypes are uploads that must pass through the conversion service.
var convertibleTypes = map[string]bool{
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// DocumentService stores invoice documents on local disk and delegates PDF
// conversion and page cropping to the external conversion service.
type DocumentService struct {
	cfg        *config.Config
	conversion *client.ConversionClient
	log        zerolog.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(cfg *config.Config, conversion *client.ConversionClient, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		cfg:        cfg,
		conversion: conversion,
		log:        log.With().Str("component", "document_service").Logger(),
	}
}

// SaveUpload validates and stores an uploaded file under a UUID filename.
// Convertible office documents are sent through the conversion service and
// stored as PDF. Returns the relative URL path of the stored file.
func (s *DocumentService) SaveUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
	}
	if header.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	var content io.Reader = file
	if convertibleTypes[contentType] {
		converted, err := s.conversion.ConvertToPDF(ctx, header.Filename, file)
		if err != nil {
			s.log.Error().Err(err).Str("filename", header.Filename).Msg("Document conversion failed")
			return "", err
		}
		content = bytes.NewReader(converted)
		ext = ".pdf"
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(s.cfg.UploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return "/uploads/" + filename, nil
}

// RenderPage renders one page of a stored PDF as a PNG image, for the
// document preview pane.
func (s *DocumentService) RenderPage(ctx context.Context, urlPath string, page int) ([]byte, error) {
	f, name, err := s.open(urlPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.conversion.RenderPage(ctx, name, f, page)
}

// CropRegion cuts a region out of a stored PDF's page as a PNG image, used
// for stamp and signature extraction.
func (s *DocumentService) CropRegion(ctx context.Context, urlPath string, page int, rect client.CropRect) ([]byte, error) {
	f, name, err := s.open(urlPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.conversion.CropRegion(ctx, name, f, page, rect)
}

// open resolves a stored document's URL path to a file handle, refusing
// anything outside the upload directory.
func (s *DocumentService) open(urlPath string) (*os.File, string, error) {
	name := filepath.Base(strings.TrimPrefix(urlPath, "/uploads/"))
	if name == "." || name == "/" || name == "" {
		return nil, "", ErrDocumentNotFound
	}

	f, err := os.Open(filepath.Join(s.cfg.UploadDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrDocumentNotFound
		}
		return nil, "", err
	}
	return f, name, nil
}
