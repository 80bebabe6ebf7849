package models

import (
	"time"
)

// Account defines a provisioned identity based on the 'accounts' table. The
// identifier is allocated from the account's group range, assigned exactly
// once at creation and never reused.
type Account struct {
	ID          int64      `json:"id" db:"id" example:"10000"`
	Email       string     `json:"email" db:"email" example:"student@campus.pk"`
	Password    string     `json:"-" db:"password"` // hashed, excluded from JSON
	FirstName   string     `json:"firstName" db:"first_name" example:"Ayesha"`
	LastName    string     `json:"lastName" db:"last_name" example:"Khan"`
	IsVerified  bool       `json:"isVerified" db:"is_verified"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	IsStaff     bool       `json:"isStaff" db:"is_staff"`
	IsSuperuser bool       `json:"isSuperuser" db:"is_superuser"`
	GroupID     int64      `json:"groupId" db:"group_id"`
	GroupName   string     `json:"groupName" db:"-"` // joined from groups
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}

// Student defines the student profile based on the 'students' table.
// RegistrationID follows {batch_code}-{program_abb}-{account_id}.
type Student struct {
	ID             int64  `json:"id" db:"id"`
	AccountID      int64  `json:"accountId" db:"account_id"`
	BatchID        int64  `json:"batchId" db:"batch_id"`
	LocationID     int64  `json:"locationId" db:"location_id"`
	Program        string `json:"program" db:"program"`
	ProgramAbb     string `json:"programAbb" db:"program_abb"`
	RegistrationID string `json:"registrationId" db:"registration_id" example:"LHR-26-CS-10000"`

	Account  *Account  `json:"account,omitempty"`  // relation, no db tag
	Batch    *Batch    `json:"batch,omitempty"`    // relation, no db tag
	Location *Location `json:"location,omitempty"` // relation, no db tag
}

// Instructor defines the instructor profile based on the 'instructors' table.
type Instructor struct {
	ID        int64  `json:"id" db:"id"`
	AccountID int64  `json:"accountId" db:"account_id"`
	CityID    int64  `json:"cityId" db:"city_id"`
	Skill     string `json:"skill" db:"skill"`

	Account *Account `json:"account,omitempty"` // relation, no db tag
	City    *City    `json:"city,omitempty"`    // relation, no db tag
}
