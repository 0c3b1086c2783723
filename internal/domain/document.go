package domain

import (
	"io"
	"strings"

	"github.com/google/uuid"
)

// UserDocument is an uploaded knowledge-base PDF used to train the assistant.
type UserDocument struct {
	ID          string  `json:"id"`
	FileName    string  `json:"file_name"`
	StoragePath string  `json:"storage_path"`
	Content     *string `json:"content"`
	CreatedAt   string  `json:"created_at"`
}

// ItemID implements resource.Item.
func (d UserDocument) ItemID() string { return d.ID }

const placeholderDocPrefix = "pending-"

// NewPlaceholderDocumentID returns a temporary id for a document being uploaded.
func NewPlaceholderDocumentID() string {
	return placeholderDocPrefix + uuid.NewString()
}

// IsPlaceholderDocumentID reports whether id was generated client-side.
func IsPlaceholderDocumentID(id string) bool {
	return id == "" || strings.HasPrefix(id, placeholderDocPrefix)
}

// PDFContentType is the only accepted upload type.
const PDFContentType = "application/pdf"

// Upload is one file received from the browser.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// IsPDF reports whether the upload looks like a PDF. Generic types fall
// back to the file extension.
func (u Upload) IsPDF() bool {
	switch u.ContentType {
	case PDFContentType:
		return true
	case "", "application/octet-stream":
		return strings.HasSuffix(strings.ToLower(u.FileName), ".pdf")
	}
	return false
}

// RejectedUpload is a file that was not sent to the backend.
type RejectedUpload struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

// UploadResult summarizes a batch upload.
// Rejected files never reached the backend (limit or type); Failed ones
// were sent and refused. Total is the account's document count afterwards.
type UploadResult struct {
	Uploaded []UserDocument   `json:"uploaded"`
	Rejected []RejectedUpload `json:"rejected,omitempty"`
	Failed   []RejectedUpload `json:"failed,omitempty"`
	Total    int              `json:"total"`
	Notice   *Notice          `json:"notice,omitempty"`
}

// AllSucceeded reports whether every file that was sent was stored.
func (r *UploadResult) AllSucceeded() bool {
	return len(r.Failed) == 0
}
