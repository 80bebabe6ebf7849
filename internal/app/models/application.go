package models

import "time"

// ApplicationStatus enumerates the lifecycle of a registration request.
// Transitions are monotonic in the listed order; removed is terminal from any
// state.
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationShortListed ApplicationStatus = "short_listed"
	ApplicationApproved    ApplicationStatus = "approved"
	ApplicationRemoved     ApplicationStatus = "removed"
)

var applicationStatusRank = map[ApplicationStatus]int{
	ApplicationPending:     0,
	ApplicationShortListed: 1,
	ApplicationApproved:    2,
}

// ValidApplicationStatus reports whether s is a known status value.
func ValidApplicationStatus(s ApplicationStatus) bool {
	_, ok := applicationStatusRank[s]
	return ok || s == ApplicationRemoved
}

// CanTransition reports whether moving from one status to another respects
// the monotonic lifecycle.
func CanTransition(from, to ApplicationStatus) bool {
	if from == ApplicationRemoved {
		return false
	}
	if to == ApplicationRemoved {
		return true
	}
	fromRank, okFrom := applicationStatusRank[from]
	toRank, okTo := applicationStatusRank[to]
	return okFrom && okTo && toRank > fromRank
}

// Application is a pending registration request based on the 'applications'
// table. It is consumed (becomes an Account) on successful verification.
type Application struct {
	ID         int64             `json:"id" db:"id"`
	Email      string            `json:"email" db:"email" example:"applicant@campus.pk"`
	FirstName  string            `json:"firstName" db:"first_name"`
	LastName   string            `json:"lastName" db:"last_name"`
	GroupName  string            `json:"groupName" db:"group_name" example:"student"`
	Status     ApplicationStatus `json:"status" db:"status"`
	City       string            `json:"city" db:"city" example:"Lahore"`
	CityAbb    string            `json:"cityAbb" db:"city_abb" example:"LHR"`
	Program    *string           `json:"program,omitempty" db:"program"`         // student selection
	ProgramAbb *string           `json:"programAbb,omitempty" db:"program_abb"`  // student selection
	Skill      *string           `json:"skill,omitempty" db:"skill"`             // instructor selection
	LocationID *int64            `json:"locationId,omitempty" db:"location_id"`  // recorded on short-listing
	CreatedAt  time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time         `json:"updatedAt" db:"updated_at"`
}
