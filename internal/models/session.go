package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the signed session issued at login. It carries everything a
// view needs to scope its lookups to the student.
type SessionClaims struct {
	RollNumber string `json:"roll_number"`
	Batch      string `json:"batch"`
	Branch     string `json:"branch"`
	Semester   string `json:"semester"`
	jwt.RegisteredClaims
}

// Cohort returns the session's (batch, branch, semester) triple.
func (c *SessionClaims) Cohort() Cohort {
	return Cohort{Batch: c.Batch, Branch: c.Branch, Semester: c.Semester}
}

// LoginRequest identifies a student by roll number.
type LoginRequest struct {
	RollNumber string `json:"roll_number" validate:"required,max=64"`
	IP         string `json:"-"`
	UserAgent  string `json:"-"`
}

// LoginResponse returns the session token and the student's profile.
type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   int64   `json:"expires_in"`
	Student     Student `json:"student"`
}
