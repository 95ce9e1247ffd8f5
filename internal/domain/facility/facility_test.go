package facility

import (
	"errors"
	"testing"

	"facility_reports/internal/domain/report"
)

func TestAuditRequestDefaultsAndValidation(t *testing.T) {
	req := NewAuditRequest("", " Kim ", "", "")
	if req.FacilityID != nil || req.Type != AuditFull || req.Auditor != "Kim" {
		t.Errorf("NewAuditRequest() = %+v", req)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	for name, tc := range map[string]struct {
		req   AuditRequest
		field string
	}{
		"missing auditor": {NewAuditRequest("f1", "", AuditQuick, ""), "Auditor"},
		"unknown type":    {NewAuditRequest("f1", "Kim", "deep", ""), "Type"},
	} {
		t.Run(name, func(t *testing.T) {
			var vErr *report.ValidationError
			if err := tc.req.Validate(); !errors.As(err, &vErr) || vErr.Field != tc.field {
				t.Errorf("Validate() = %v, want ValidationError on %s", err, tc.field)
			}
		})
	}
}

func TestScheduleRequestValidation(t *testing.T) {
	for _, tc := range []struct {
		name  string
		req   ScheduleRequest
		field string
	}{
		{"valid", NewScheduleRequest("f1", "2024-03-04", "14:30", "Kim", ""), ""},
		{"bad date", NewScheduleRequest("f1", "04/03/2024", "14:30", "Kim", ""), "Date"},
		{"bad time", NewScheduleRequest("f1", "2024-03-04", "2pm", "Kim", ""), "Time"},
		{"bad type", NewScheduleRequest("f1", "2024-03-04", "14:30", "Kim", "weekly"), "Type"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.field == "" {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			var vErr *report.ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tc.field {
				t.Errorf("Validate() = %v, want ValidationError on %s", err, tc.field)
			}
		})
	}
}

func TestScheduleRequestKeepsFacility(t *testing.T) {
	req := NewScheduleRequest("f1", "2024-03-04", "14:30", "Kim", ScheduleComprehensive)
	if req.FacilityID == nil || *req.FacilityID != "f1" {
		t.Errorf("FacilityID = %v, want f1", req.FacilityID)
	}
}

func TestTaskDefaultsAndValidation(t *testing.T) {
	task := NewTask("Refill soap", "Restroom - Ground Floor(010)", "2024-03-04", "", "", "HIGH")
	if task.Priority != TaskPriorityHigh || task.Status != TaskStatusPending {
		t.Errorf("NewTask() = %+v", task)
	}
	if err := task.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	var vErr *report.ValidationError
	if err := NewTask("", "L", "2024-03-04", "", "", "").Validate(); !errors.As(err, &vErr) || vErr.Field != "Task" {
		t.Errorf("Validate() = %v, want ValidationError on Task", err)
	}
}

func TestTaskFillFrom(t *testing.T) {
	sent := NewTask("Refill soap", "L", "2024-03-04", "09:00", "Sam", "")
	echoed := Task{ID: "t1"}
	echoed.FillFrom(sent)
	if echoed.ID != "t1" || echoed.Task != "Refill soap" || echoed.Priority != TaskPriorityMedium || echoed.Status != TaskStatusPending {
		t.Errorf("FillFrom() = %+v", echoed)
	}
}

func TestOverviewFind(t *testing.T) {
	o := Overview{Facilities: []Facility{{ID: "f1", Name: "Ground Floor"}}}
	if f, ok := o.Find("ground floor"); !ok || f.ID != "f1" {
		t.Errorf("Find(name) = %+v, %v", f, ok)
	}
	if _, ok := o.Find("f2"); ok {
		t.Error("Find() matched an unknown facility")
	}
}
