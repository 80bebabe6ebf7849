package dto

// SubmitApplicationRequest creates a new Application. Email is normalized to
// lowercase, city and names to title case, cityAbb upper, groupName lower.
type SubmitApplicationRequest struct {
	Email      string  `json:"email" binding:"required" validate:"required,email"`
	FirstName  string  `json:"firstName" binding:"required" validate:"required"`
	LastName   string  `json:"lastName" binding:"required" validate:"required"`
	GroupName  string  `json:"groupName" binding:"required" validate:"required,oneof=admin hod instructor student ADMIN HOD INSTRUCTOR STUDENT Admin Hod Instructor Student"`
	City       string  `json:"city" binding:"required" validate:"required"`
	CityAbb    string  `json:"cityAbb" binding:"required" validate:"required"`
	Program    *string `json:"program,omitempty"`
	ProgramAbb *string `json:"programAbb,omitempty"`
	Skill      *string `json:"skill,omitempty"`
}

// ProcessApplicationRequest transitions an application's status and records
// selections. LocationID is required when short-listing a student.
type ProcessApplicationRequest struct {
	Status     string  `json:"status" binding:"required" validate:"required,oneof=pending short_listed approved removed"`
	LocationID *int64  `json:"locationId,omitempty"`
	Program    *string `json:"program,omitempty"`
	ProgramAbb *string `json:"programAbb,omitempty"`
	Skill      *string `json:"skill,omitempty"`
}

// CreateStaffAccountRequest provisions an administrative account directly,
// without an application.
type CreateStaffAccountRequest struct {
	Email       string `json:"email" binding:"required" validate:"required,email"`
	FirstName   string `json:"firstName" binding:"required" validate:"required"`
	LastName    string `json:"lastName" binding:"required" validate:"required"`
	Password    string `json:"password" binding:"required" validate:"required,min=8"`
	IsSuperuser bool   `json:"isSuperuser"`
}

// LoginRequest authenticates by email and password. Email matching is
// case-insensitive.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required" validate:"required"`
}

// SetPasswordRequest completes verification by setting the first password.
type SetPasswordRequest struct {
	Token    string `json:"token" binding:"required" validate:"required"`
	Password string `json:"password" binding:"required" validate:"required,min=8"`
}

// ChangePasswordRequest rotates the password of an authenticated account.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required" validate:"required"`
	NewPassword string `json:"newPassword" binding:"required" validate:"required,min=8"`
}

// ResetPasswordRequest sets a new password from a reset link.
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required" validate:"required,min=8"`
}

// ResendVerificationRequest re-issues a verification token.
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
}

// AssignSessionsRequest binds the authenticated account's profile to sessions,
// validated in input order.
type AssignSessionsRequest struct {
	SessionIDs []int64 `json:"sessionIds" binding:"required" validate:"required,min=1"`
}

// CreateSessionRequest creates a scheduled offering.
type CreateSessionRequest struct {
	CourseID     int64   `json:"courseId" binding:"required" validate:"required"`
	LocationID   int64   `json:"locationId" binding:"required" validate:"required"`
	BatchID      int64   `json:"batchId" binding:"required" validate:"required"`
	NoOfStudents int     `json:"noOfStudents" binding:"required" validate:"required,min=1"`
	StartTime    string  `json:"startTime" binding:"required" validate:"required"` // RFC3339
	EndTime      string  `json:"endTime" binding:"required" validate:"required"`   // RFC3339
	StartDate    string  `json:"startDate" binding:"required" validate:"required"` // YYYY-MM-DD
	EndDate      string  `json:"endDate" binding:"required" validate:"required"`   // YYYY-MM-DD
	DaysOfWeek   []int32 `json:"daysOfWeek" binding:"required" validate:"required,min=1"`
}

// CreateCityRequest creates a city.
type CreateCityRequest struct {
	Name      string `json:"name" binding:"required" validate:"required"`
	ShortName string `json:"shortName" binding:"required" validate:"required,max=5"`
}

// CreateLocationRequest creates a location within a city.
type CreateLocationRequest struct {
	CityID int64  `json:"cityId" binding:"required" validate:"required"`
	Name   string `json:"name" binding:"required" validate:"required"`
}

// CreateBatchRequest creates a batch; the code is derived server-side.
type CreateBatchRequest struct {
	CityID int64 `json:"cityId" binding:"required" validate:"required"`
	Year   int   `json:"year" binding:"required" validate:"required,min=2000"`
}
