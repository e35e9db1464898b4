package domain

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// PDFMimeType is the only upload type the backend accepts.
const PDFMimeType = "application/pdf"

// DefaultMaxUploadBytes caps a single book upload.
const DefaultMaxUploadBytes int64 = 10 * 1024 * 1024

// DetectMIME sniffs the content type of the file at path.
func DetectMIME(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect file type: %w", err)
	}
	return mt.String(), nil
}

// CheckUpload runs the pre-upload checks against the account quota. A nil
// quota skips the quota checks; a non-positive maxBytes uses
// DefaultMaxUploadBytes.
func CheckUpload(size int64, mime string, quota *StorageQuota, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if quota != nil {
		if quota.FilesExhausted() {
			return fmt.Errorf("%w: file limit reached (%d files)", ErrQuota, quota.MaxFiles)
		}
		if quota.UsedBytes+size > quota.MaxBytes {
			return fmt.Errorf("%w: file needs %s but only %s remain",
				ErrQuota, humanize.IBytes(uint64(max(size, 0))), humanize.IBytes(uint64(quota.RemainingBytes())))
		}
	}
	if size > maxBytes {
		return fmt.Errorf("%w: file is %s, maximum is %s",
			ErrValidation, humanize.IBytes(uint64(size)), humanize.IBytes(uint64(maxBytes)))
	}
	if !mimetype.EqualsAny(mime, PDFMimeType) {
		return fmt.Errorf("%w: only PDF files are supported (got %s)", ErrValidation, mime)
	}
	return nil
}
