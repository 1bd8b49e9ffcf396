package models

// Status is the lifecycle status shared by projects and tasks.
type Status string

const (
	StatusNA         Status = "N/A"
	StatusInProgress Status = "In Progress"
	StatusOnHold     Status = "On Hold"
	StatusCompleted  Status = "Completed"
)

// ValidStatuses contains all valid status values.
var ValidStatuses = []Status{StatusNA, StatusInProgress, StatusOnHold, StatusCompleted}

// IsValidStatus checks if the given status is valid.
func IsValidStatus(status Status) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
