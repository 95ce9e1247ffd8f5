package report

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxAttachmentSize is the largest image accepted with a report (5 MiB).
const MaxAttachmentSize = 5 * 1024 * 1024

// Attachment is an optional image sent along with a report.
type Attachment struct {
	Content  []byte
	MIMEType string // declared type; sniffed from Content when empty
	Filename string
}

// ContentType returns the declared MIME type, or the sniffed one if none was declared.
func (a Attachment) ContentType() string {
	if a.MIMEType != "" {
		return a.MIMEType
	}
	return mimetype.Detect(a.Content).String()
}

// Validate checks size and that the content really is an image of the declared type.
func (a Attachment) Validate() error {
	if len(a.Content) == 0 {
		return &ValidationError{Field: "attachment", Message: "Attachment is empty."}
	}
	if len(a.Content) > MaxAttachmentSize {
		return &ValidationError{Field: "attachment", Message: "Image file size should be less than 5MB"}
	}

	detected := mimetype.Detect(a.Content)
	if !strings.HasPrefix(detected.String(), "image/") {
		return &ValidationError{Field: "attachment", Message: "Please upload only image files"}
	}
	if a.MIMEType != "" && !detected.Is(a.MIMEType) {
		return &ValidationError{
			Field:   "attachment",
			Message: fmt.Sprintf("Attachment declared as %s but contains %s", a.MIMEType, detected.String()),
		}
	}
	return nil
}

// DataURL encodes the attachment the way a browser FileReader would.
func (a Attachment) DataURL() string {
	return "data:" + a.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(a.Content)
}
