package utils

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// MaxAttachmentSize is 2MiB in bytes
	MaxAttachmentSize = 2 * 1024 * 1024
)

// AllowedAttachmentTypes lists the MIME types accepted for chat attachments
var AllowedAttachmentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

// servedContentTypes maps file extensions that may be served back to their content type
var servedContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".pdf":  "application/pdf",
}

// attachmentExtensions maps accepted attachment MIME types to the extension they are stored with
var attachmentExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

var (
	// UploadDir is the directory where uploaded files are stored
	// Can be overridden for testing
	UploadDir = "./uploads"
)

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateAttachment validates the size and MIME type of a chat attachment
func ValidateAttachment(size int64, mimeType string) error {
	if size <= 0 {
		return &FileUploadError{
			Code:    "EMPTY_FILE",
			Message: "File is empty",
		}
	}

	// Check file size
	if size > MaxAttachmentSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxAttachmentSize/(1024*1024)),
		}
	}

	// Check MIME type
	if !AllowedAttachmentTypes[NormalizeMimeType(mimeType)] {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only JPEG, PNG and PDF files are allowed",
		}
	}

	return nil
}

// NormalizeMimeType lower-cases a MIME type and strips any parameters
func NormalizeMimeType(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mimeType))
	}
	return mediaType
}

// ResolveMimeType returns the declared MIME type, or sniffs it from content when the
// client did not declare one or declared a generic binary type
func ResolveMimeType(declared string, content []byte) string {
	declared = NormalizeMimeType(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return NormalizeMimeType(mimetype.Detect(content).String())
}

// SaveFile writes content under uploadDir using the given base name
func SaveFile(content []byte, uploadDir, name string) error {
	// Create uploads directory if it doesn't exist
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	if !IsSafeFilename(name) {
		return fmt.Errorf("invalid file name %q", name)
	}

	if err := os.WriteFile(filepath.Join(uploadDir, name), content, 0644); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// SanitizeFilename reduces a client supplied file name to a safe base name
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	for strings.Contains(cleaned, "..") {
		cleaned = strings.ReplaceAll(cleaned, "..", ".")
	}
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

// AttachmentExtension returns the stored extension for an accepted attachment MIME type
func AttachmentExtension(mimeType string) (string, bool) {
	ext, ok := attachmentExtensions[NormalizeMimeType(mimeType)]
	return ext, ok
}

// StoredAttachmentName sanitizes a client file name and replaces its extension with the
// one implied by mimeType, so the stored name always matches the validated content type
func StoredAttachmentName(fileName, mimeType string) string {
	name := SanitizeFilename(fileName)
	ext, ok := AttachmentExtension(mimeType)
	if !ok {
		return name
	}
	if base := strings.TrimSuffix(name, filepath.Ext(name)); base != "" {
		name = base
	}
	return name + ext
}

// IsSafeFilename rejects empty names and names that could escape the upload directory
func IsSafeFilename(name string) bool {
	if name == "" {
		return false
	}
	return !strings.Contains(name, "..") && !strings.Contains(name, "/") && !strings.Contains(name, "\\")
}

// ServedContentType returns the content type for a stored file, or false when the
// extension is not one that may be served
func ServedContentType(filename string) (string, bool) {
	contentType, ok := servedContentTypes[strings.ToLower(filepath.Ext(filename))]
	return contentType, ok
}

// GetUploadURL returns the URL path for accessing a locally stored upload
func GetUploadURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/api/v1/uploads/%s", filename)
}
