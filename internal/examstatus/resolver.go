// Package examstatus decides what a student may see about an exam sitting on
// a given day: a completed notice, the room number, or an upcoming notice.
package examstatus

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/hallticket-portal/internal/models"
)

// DateLayout is the calendar format of exam record dates.
const DateLayout = "2006-01-02"

// ErrInvalidDateFormat is returned when an exam date is not a YYYY-MM-DD
// calendar date.
var ErrInvalidDateFormat = errors.New("invalid exam date format")

// State enumerates what is revealed for an exam sitting.
type State string

const (
	Completed   State = "completed"
	RevealRoom  State = "reveal_room"
	RoomPending State = "room_pending"
	Upcoming    State = "upcoming"
)

// DisplayState is the resolved outcome for one exam record.
type DisplayState struct {
	State      State  `json:"state"`
	ExamDate   string `json:"exam_date"`
	RoomNumber string `json:"room_number,omitempty"`
	Message    string `json:"message"`
}

// ParseDate parses an exam date as a calendar date in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDateFormat, raw, err)
	}
	return d, nil
}

// Resolve compares examDate with the calendar date of today. Time of day is
// ignored. The room is revealed only on the exam day and only when present.
func Resolve(examDate string, today time.Time, roomNumber *string) (DisplayState, error) {
	exam, err := ParseDate(examDate, today.Location())
	if err != nil {
		return DisplayState{}, err
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	formatted := exam.Format(DateLayout)

	switch {
	case exam.Before(day):
		return DisplayState{
			State:    Completed,
			ExamDate: formatted,
			Message:  fmt.Sprintf("The exam was completed on %s.", formatted),
		}, nil
	case exam.After(day):
		return DisplayState{
			State:    Upcoming,
			ExamDate: formatted,
			Message:  fmt.Sprintf("You can view your room number on %s.", formatted),
		}, nil
	}

	if roomNumber == nil || strings.TrimSpace(*roomNumber) == "" || *roomNumber == models.NotAvailable {
		return DisplayState{
			State:    RoomPending,
			ExamDate: formatted,
			Message:  "Room number not available for today.",
		}, nil
	}
	room := strings.TrimSpace(*roomNumber)
	return DisplayState{
		State:      RevealRoom,
		ExamDate:   formatted,
		RoomNumber: room,
		Message:    fmt.Sprintf("Your room number today is: %s", room),
	}, nil
}

// ResolveRecord resolves a single exam record using that record's own room.
func ResolveRecord(record models.ExamRecord, today time.Time) (DisplayState, error) {
	state, err := Resolve(record.Date, today, record.RoomNumber)
	if err != nil {
		return DisplayState{}, err
	}
	if record.Subject != "" {
		state.Message = withSubject(state, record.Subject)
	}
	return state, nil
}

func withSubject(s DisplayState, subject string) string {
	switch s.State {
	case Completed:
		return fmt.Sprintf("The exam for %s was completed on %s.", subject, s.ExamDate)
	case Upcoming:
		return fmt.Sprintf("You can view your room number for %s on %s.", subject, s.ExamDate)
	case RevealRoom:
		return fmt.Sprintf("Your room number for %s today is: %s", subject, s.RoomNumber)
	default:
		return s.Message
	}
}
