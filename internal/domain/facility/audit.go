// Package facility holds the audit and maintenance side of the backend: facility
// scores, audit requests and maintenance tasks.
package facility

import "strings"

// AllFacilities selects every facility; it is sent to the backend as a null facilityId.
const AllFacilities = "All Facilities"

// Audit types accepted by POST /api/audits/new.
const (
	AuditFull     = "full"
	AuditQuick    = "quick"
	AuditFollowUp = "follow-up"
)

// Schedule types accepted by POST /api/audits/schedule.
const (
	ScheduleRegular       = "regular"
	ScheduleComprehensive = "comprehensive"
)

type Scores struct {
	Hygiene       float64 `json:"hygiene"`
	Supplies      float64 `json:"supplies"`
	Privacy       float64 `json:"privacy"`
	Accessibility float64 `json:"accessibility"`
}

// Facility is one audited restroom block with its latest scores.
type Facility struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Status       string  `json:"status"`
	LastAudit    string  `json:"lastAudit"`
	OverallScore float64 `json:"overallScore"`
	Scores       Scores  `json:"scores"`
}

type Criterion struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Weight     float64 `json:"weight"`
	Stars      int     `json:"stars"`
}

type ComplianceItem struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Overview is everything the audit page loads at once.
type Overview struct {
	Facilities      []Facility
	Criteria        []Criterion
	ComplianceItems []ComplianceItem
}

// Find looks a facility up by id or by name.
func (o Overview) Find(idOrName string) (Facility, bool) {
	for _, f := range o.Facilities {
		if f.ID == idOrName || strings.EqualFold(f.Name, idOrName) {
			return f, true
		}
	}
	return Facility{}, false
}

// AuditRequest starts an audit now.
type AuditRequest struct {
	FacilityID *string `json:"facilityId"`
	Auditor    string  `json:"auditor" validate:"required"`
	Type       string  `json:"type" validate:"oneof=full quick follow-up"`
	Notes      string  `json:"notes"`
}

// NewAuditRequest builds a request; an empty facility or AllFacilities targets every facility.
func NewAuditRequest(facilityID, auditor, auditType, notes string) AuditRequest {
	if auditType == "" {
		auditType = AuditFull
	}
	return AuditRequest{
		FacilityID: facilityRef(facilityID),
		Auditor:    strings.TrimSpace(auditor),
		Type:       auditType,
		Notes:      strings.TrimSpace(notes),
	}
}

func (r AuditRequest) Validate() error {
	return validateStruct(r, map[string]string{
		"Auditor": "Please enter the auditor's name.",
		"Type":    "Audit type must be full, quick or follow-up.",
	})
}

// ScheduleRequest books an audit for a later date.
type ScheduleRequest struct {
	FacilityID *string `json:"facilityId"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string  `json:"time" validate:"required,datetime=15:04"`
	Auditor    string  `json:"auditor" validate:"required"`
	Type       string  `json:"type" validate:"oneof=regular comprehensive"`
}

func NewScheduleRequest(facilityID, date, clock, auditor, scheduleType string) ScheduleRequest {
	if scheduleType == "" {
		scheduleType = ScheduleRegular
	}
	return ScheduleRequest{
		FacilityID: facilityRef(facilityID),
		Date:       strings.TrimSpace(date),
		Time:       strings.TrimSpace(clock),
		Auditor:    strings.TrimSpace(auditor),
		Type:       scheduleType,
	}
}

func (r ScheduleRequest) Validate() error {
	return validateStruct(r, map[string]string{
		"Date":    "Date must look like 2024-03-04.",
		"Time":    "Time must look like 14:30.",
		"Auditor": "Please enter the auditor's name.",
		"Type":    "Schedule type must be regular or comprehensive.",
	})
}

func facilityRef(id string) *string {
	id = strings.TrimSpace(id)
	if id == "" || id == AllFacilities {
		return nil
	}
	return &id
}

// Audit is the backend's echo of a started or scheduled audit. Unknown fields are ignored.
type Audit struct {
	ID         string  `json:"id"`
	FacilityID *string `json:"facilityId"`
	Auditor    string  `json:"auditor"`
	Type       string  `json:"type"`
	Date       string  `json:"date,omitempty"`
	Time       string  `json:"time,omitempty"`
	Status     string  `json:"status,omitempty"`
}
