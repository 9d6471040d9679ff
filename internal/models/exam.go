package models

import "strings"

// NotAvailable is rendered for verification fields a record does not carry.
const NotAvailable = "N/A"

// Cohort identifies the students sharing one record set.
type Cohort struct {
	Batch    string `json:"batch"`
	Branch   string `json:"branch"`
	Semester string `json:"semester"`
}

// CacheKey renders the cohort for cache key construction.
func (c Cohort) CacheKey() string {
	return strings.ToLower(c.Batch + ":" + c.Branch + ":" + c.Semester)
}

// RecordSet is a named grouping of exam records for one cohort.
type RecordSet struct {
	Name     string `db:"name" json:"name"`
	Batch    string `db:"batch" json:"batch"`
	Branch   string `db:"branch" json:"branch"`
	Semester string `db:"semester" json:"semester"`
}

// ExamRecord is one student's sitting for one subject within a record set.
type ExamRecord struct {
	ID               string  `db:"id" json:"id"`
	RecordSet        string  `db:"record_set" json:"record_set"`
	HallTicketNumber string  `db:"hall_ticket_number" json:"hall_ticket_number"`
	Date             string  `db:"exam_date" json:"date"`
	Time             string  `db:"exam_time" json:"time"`
	Subject          string  `db:"subject" json:"subject"`
	SubjectCode      string  `db:"subject_code" json:"subject_code"`
	Credits          int     `db:"subject_credits" json:"credits"`
	SubjectType      string  `db:"subject_type" json:"subject_type"`
	Batch            string  `db:"batch" json:"batch"`
	Branch           string  `db:"branch" json:"branch"`
	Semester         string  `db:"semester" json:"semester"`
	FaceStatus       *string `db:"face_status" json:"face_status,omitempty"`
	QRStatus         *string `db:"qr_status" json:"qr_status,omitempty"`
	ThumbStatus      *string `db:"thumb_status" json:"thumb_status,omitempty"`
	FinalStatus      *string `db:"final_status" json:"final_status,omitempty"`
	BookletNumber    *string `db:"booklet_number" json:"booklet_number,omitempty"`
	RoomNumber       *string `db:"room_number" json:"room_number,omitempty"`
}

// OrNA dereferences an optional field, substituting NotAvailable.
func OrNA(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return NotAvailable
	}
	return *v
}
