package dto

import (
	"time"

	"github.com/noah-isme/hallticket-portal/internal/examstatus"
)

// RecordSetResponse lists the record sets visible to a session.
type RecordSetResponse struct {
	Name string `json:"name"`
}

// ScheduleRow is one line of the exam schedule table.
type ScheduleRow struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Subject     string `json:"subject"`
	SubjectCode string `json:"subject_code"`
	Credits     int    `json:"credits"`
	SubjectType string `json:"subject_type"`
	Batch       string `json:"batch"`
	Branch      string `json:"branch"`
	Semester    string `json:"semester"`
}

// StatusRow is one line of the verification status table. Fields a record
// does not carry are rendered as N/A.
type StatusRow struct {
	Date          string `json:"date"`
	Subject       string `json:"subject"`
	SubjectCode   string `json:"subject_code"`
	FaceStatus    string `json:"face_status"`
	QRStatus      string `json:"qr_status"`
	ThumbStatus   string `json:"thumb_status"`
	FinalStatus   string `json:"final_status"`
	BookletNumber string `json:"booklet_number"`
}

// RoomRow pairs an exam sitting with what may be revealed about it today.
// A row whose date cannot be parsed carries Error and no State.
type RoomRow struct {
	Date    string                   `json:"date"`
	Time    string                   `json:"time"`
	Subject string                   `json:"subject"`
	State   *examstatus.DisplayState `json:"state,omitempty"`
	Error   *RowError                `json:"error,omitempty"`
}

// RowError describes a per-row failure that leaves the rest of a view intact.
type RowError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HallTicketLinkResponse is returned when a signed download link is issued.
type HallTicketLinkResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
