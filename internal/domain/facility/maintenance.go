package facility

import "strings"

// Maintenance task priorities and the status every new task starts in.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"

	TaskStatusPending = "pending"
)

// Task is a scheduled maintenance job, as sent to and echoed by POST /api/maintenance/tasks.
type Task struct {
	ID         string `json:"_id,omitempty"`
	Task       string `json:"task" validate:"required"`
	Location   string `json:"location" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string `json:"time" validate:"omitempty,datetime=15:04"`
	AssignedTo string `json:"assignedTo"`
	Priority   string `json:"priority" validate:"oneof=low medium high"`
	Status     string `json:"status"`
}

// NewTask fills the defaults of a freshly created task: medium priority, pending.
func NewTask(task, location, date, clock, assignedTo, priority string) Task {
	if priority == "" {
		priority = TaskPriorityMedium
	}
	return Task{
		Task:       strings.TrimSpace(task),
		Location:   strings.TrimSpace(location),
		Date:       strings.TrimSpace(date),
		Time:       strings.TrimSpace(clock),
		AssignedTo: strings.TrimSpace(assignedTo),
		Priority:   strings.ToLower(priority),
		Status:     TaskStatusPending,
	}
}

func (t Task) Validate() error {
	return validateStruct(t, map[string]string{
		"Task":     "Please describe the task.",
		"Location": "Please select a location.",
		"Date":     "Date must look like 2024-03-04.",
		"Time":     "Time must look like 14:30.",
		"Priority": "Priority must be low, medium or high.",
	})
}

// FillFrom completes an echoed task with what was sent.
func (t *Task) FillFrom(sent Task) {
	if t.Task == "" {
		t.Task = sent.Task
	}
	if t.Location == "" {
		t.Location = sent.Location
	}
	if t.Date == "" {
		t.Date = sent.Date
	}
	if t.Time == "" {
		t.Time = sent.Time
	}
	if t.AssignedTo == "" {
		t.AssignedTo = sent.AssignedTo
	}
	if t.Priority == "" {
		t.Priority = sent.Priority
	}
	if t.Status == "" {
		t.Status = sent.Status
	}
}
