package report

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Draft is what a reporter fills in before anything is sent to the backend.
type Draft struct {
	IssueType       string `validate:"required"`
	CustomIssueType string `validate:"required_if=IssueType Other"`
	Location        string `validate:"required"`
	Details         string
	Attachment      *Attachment
}

// Submission is the POST /api/reports body.
type Submission struct {
	IssueType string    `json:"issueType"`
	Location  string    `json:"location"`
	Priority  Priority  `json:"priority"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
	Image     *string   `json:"image"`
	ImageName *string   `json:"imageName"`
	ImageType *string   `json:"imageType"`
}

func (d Draft) trimmed() Draft {
	d.IssueType = strings.TrimSpace(d.IssueType)
	d.CustomIssueType = strings.TrimSpace(d.CustomIssueType)
	d.Location = strings.TrimSpace(d.Location)
	return d
}

// Validate rejects drafts that must never reach the network.
func (d Draft) Validate() error {
	t := d.trimmed()
	if err := validate.Struct(t); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return validationFromField(fieldErrs[0])
		}
		return &ValidationError{Message: err.Error()}
	}
	if t.Attachment != nil {
		return t.Attachment.Validate()
	}
	return nil
}

func validationFromField(fe validator.FieldError) *ValidationError {
	switch fe.Field() {
	case "CustomIssueType":
		return &ValidationError{Field: "customIssueType", Message: "Please specify the issue type in the 'Other' field."}
	case "IssueType":
		return &ValidationError{Field: "issueType", Message: "Please select issue type and location."}
	case "Location":
		return &ValidationError{Field: "location", Message: "Please select issue type and location."}
	default:
		return &ValidationError{Field: fe.Field(), Message: fe.Error()}
	}
}

// EffectiveIssueType is the label stored on the report: the custom text for "Other".
func (d Draft) EffectiveIssueType() string {
	t := d.trimmed()
	if t.IssueType == IssueTypeOther {
		return t.CustomIssueType
	}
	return t.IssueType
}

// Priority is derived from the selected type, so a custom "Other" label is always Low.
func (d Draft) Priority() Priority {
	return PriorityFor(d.trimmed().IssueType)
}

// Submission builds the request body. Call Validate first.
func (d Draft) Submission(now time.Time) Submission {
	t := d.trimmed()
	sub := Submission{
		IssueType: t.EffectiveIssueType(),
		Location:  t.Location,
		Priority:  t.Priority(),
		Details:   t.Details,
		Timestamp: now.UTC(),
	}
	if t.Attachment != nil {
		image := t.Attachment.DataURL()
		name := t.Attachment.Filename
		contentType := t.Attachment.ContentType()
		sub.Image = &image
		sub.ImageName = &name
		sub.ImageType = &contentType
	}
	return sub
}
