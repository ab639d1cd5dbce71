// Package ingestion extracts and cleans plain text from uploaded résumé documents.
package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is a supported document format
type Format string

// Supported formats
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Sentinel errors
var (
	ErrUnsupportedFormat = errors.New("only PDF and DOCX files are supported")
	ErrNoText            = errors.New("document contains no extractable text")
)

// ExtractionError is returned when a document cannot be read or yields no text,
// typically because it is corrupt or image-based.
type ExtractionError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract %s text: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to extract %s text: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// FormatFromFilename maps a file extension to a Format
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Extract returns the cleaned text of a document. The whole document must be addressable
// through r; size is its length in bytes.
func Extract(ctx context.Context, r io.ReaderAt, size int64, format Format) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		raw string
		err error
	)
	switch format {
	case FormatPDF:
		raw, err = extractPDF(r, size)
	case FormatDOCX:
		raw, err = extractDOCX(ctx, r, size)
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", err
	}

	text := CleanText(raw)
	if text == "" {
		return "", &ExtractionError{Format: format, Message: "no text found", Cause: ErrNoText}
	}
	return text, nil
}

// ExtractBytes is Extract over an in-memory document
func ExtractBytes(ctx context.Context, data []byte, format Format) (string, error) {
	return Extract(ctx, bytes.NewReader(data), int64(len(data)), format)
}

// ExtractFile extracts the text of a document on disk, choosing the format from its extension
func ExtractFile(ctx context.Context, path string) (string, *Metadata, error) {
	format, err := FormatFromFilename(path)
	if err != nil {
		return "", nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", nil, fmt.Errorf("failed to stat file: %w", err)
	}

	text, err := Extract(ctx, f, info.Size(), format)
	if err != nil {
		return "", nil, err
	}
	return text, NewMetadata(text, filepath.Base(path), format), nil
}
