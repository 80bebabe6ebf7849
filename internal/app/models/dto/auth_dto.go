package dto

import "github.com/hamzahassan/campuscore/internal/app/models"

// CRUDFlags mirrors a single AccessControl row in the login payload.
type CRUDFlags struct {
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Remove bool `json:"remove"`
}

// TokenPair carries the issued tokens.
type TokenPair struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType" example:"Bearer"`
	ExpiresIn        int64  `json:"expiresIn"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn"`
}

// ProfileData is the group-dependent profile fragment of the login payload.
type ProfileData struct {
	// Student fields
	RegistrationID *string `json:"registrationId,omitempty"`
	BatchCode      *string `json:"batchCode,omitempty"`
	Program        *string `json:"program,omitempty"`
	LocationID     *int64  `json:"locationId,omitempty"`
	// Instructor fields
	CityID *int64  `json:"cityId,omitempty"`
	Skill  *string `json:"skill,omitempty"`
}

// LoginResponse is the full login payload: tokens, group, profile, permission
// bitmap and the account's current session list.
type LoginResponse struct {
	Tokens      TokenPair            `json:"tokens"`
	AccountID   int64                `json:"accountId"`
	Email       string               `json:"email"`
	GroupName   string               `json:"groupName"`
	Profile     ProfileData          `json:"profile"`
	Permissions map[string]CRUDFlags `json:"permissions"`
	Sessions    []*models.Session    `json:"sessions"`
}

// VerifyResponse is returned after a verification token is consumed.
type VerifyResponse struct {
	AccountID      int64   `json:"accountId"`
	Email          string  `json:"email"`
	GroupName      string  `json:"groupName"`
	RegistrationID *string `json:"registrationId,omitempty"`
}
