package common

import (
	"fmt"
	"strings"
)

// Category classifies the kind of municipal issue being reported.
type Category string

const (
	CategoryPothole         Category = "Pothole"
	CategoryLighting        Category = "Lighting"
	CategoryTrash           Category = "Trash"
	CategoryGraffiti        Category = "Graffiti"
	CategoryWaterLeak       Category = "Water Leak"
	CategoryTreeMaintenance Category = "Tree Maintenance"
	CategoryOther           Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryPothole,
	CategoryLighting,
	CategoryTrash,
	CategoryGraffiti,
	CategoryWaterLeak,
	CategoryTreeMaintenance,
	CategoryOther,
}

// costEstimates are the default repair estimates per category, in dollars.
var costEstimates = map[Category]float64{
	CategoryPothole:         350,
	CategoryLighting:        650,
	CategoryWaterLeak:       1200,
	CategoryGraffiti:        150,
	CategoryTrash:           150,
	CategoryTreeMaintenance: 100,
	CategoryOther:           100,
}

// EstimatedCost returns the default estimate for c. Unknown categories are
// priced like CategoryOther.
func (c Category) EstimatedCost() float64 {
	if v, ok := costEstimates[c]; ok {
		return v
	}
	return costEstimates[CategoryOther]
}

func (c Category) Valid() bool {
	_, ok := costEstimates[c]
	return ok
}

// Priority of a report as judged by the reporter or an administrator.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the triage state of a server-side report.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusRejected   Status = "Rejected"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusRejected}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Role of an account. Administrators may triage and delete reports.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// AuditAction names an audited event.
type AuditAction string

const (
	AuditReported     AuditAction = "REPORTED"
	AuditStatusChange AuditAction = "STATUS_CHANGE"
	AuditEditedReport AuditAction = "EDITED_REPORT"
	AuditDeleted      AuditAction = "DELETED"
	AuditLogin        AuditAction = "LOGIN"
	AuditSignup       AuditAction = "SIGNUP"
	AuditRoleChange   AuditAction = "ROLE_CHANGE"
)

// AuditCategory groups audit actions by origin.
type AuditCategory string

const (
	AuditUserSubmission AuditCategory = "USER_SUBMISSION"
	AuditAdminAction    AuditCategory = "ADMIN_ACTION"
	AuditSystem         AuditCategory = "SYSTEM"
	AuditSecurityAlert  AuditCategory = "SECURITY_ALERT"
)

// ParseCategory matches s case-insensitively against the known categories.
// Spaces may be written as '-' or '_' so "water-leak" works on a command line.
func ParseCategory(s string) (Category, error) {
	norm := normalize(s)
	for _, c := range Categories {
		if normalize(string(c)) == norm {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrorValidation, s)
}

func ParsePriority(s string) (Priority, error) {
	norm := normalize(s)
	for _, p := range Priorities {
		if normalize(string(p)) == norm {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown priority %q", ErrorValidation, s)
}

func ParseStatus(s string) (Status, error) {
	norm := normalize(s)
	for _, st := range Statuses {
		if normalize(string(st)) == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrorValidation, s)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", " ", "_", " ").Replace(s)
}
