package mongostore

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/noah-isme/hallticket-portal/internal/models"
)

// Field names of the legacy document layout.
const (
	fieldRollNumber       = "roll_number"
	fieldHallTicketNumber = "hall_ticket_number"
	fieldHallTicket       = "hall_ticket"
)

// stringField renders doc[key] as text. Numeric semesters and credits are
// common in imported documents, so numbers are formatted without decoration.
func stringField(doc bson.M, key string) (string, bool) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case int:
		return strconv.Itoa(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case primitive.ObjectID:
		return v.Hex(), true
	case primitive.DateTime:
		return v.Time().UTC().Format("2006-01-02"), true
	default:
		return fmt.Sprint(v), true
	}
}

// dateField renders an exam date. BSON dates are read as calendar dates in loc
// so a local-midnight exam keeps its day.
func dateField(doc bson.M, key string, loc *time.Location) string {
	if dt, ok := doc[key].(primitive.DateTime); ok {
		if loc == nil {
			loc = time.Local
		}
		return dt.Time().In(loc).Format("2006-01-02")
	}
	return text(doc, key)
}

func text(doc bson.M, key string) string {
	v, _ := stringField(doc, key)
	return v
}

func optionalText(doc bson.M, key string) *string {
	v, ok := stringField(doc, key)
	if !ok {
		return nil
	}
	return &v
}

func intField(doc bson.M, key string) int {
	v, ok := stringField(doc, key)
	if !ok {
		return 0
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		return int(f)
	}
	return 0
}

func studentFromDocument(doc bson.M) models.Student {
	return models.Student{
		RollNumber: text(doc, fieldRollNumber),
		FullName:   text(doc, "fullname"),
		Batch:      text(doc, "batch"),
		Branch:     text(doc, "branch"),
		Semester:   text(doc, "semester"),
		Email:      text(doc, "email_id"),
		Phone:      text(doc, "phone_number"),
	}
}

func examRecordFromDocument(recordSet string, doc bson.M, loc *time.Location) models.ExamRecord {
	return models.ExamRecord{
		ID:               text(doc, "_id"),
		RecordSet:        recordSet,
		HallTicketNumber: text(doc, fieldHallTicketNumber),
		Date:             dateField(doc, "date", loc),
		Time:             text(doc, "time"),
		Subject:          text(doc, "subject"),
		SubjectCode:      text(doc, "subject_code"),
		Credits:          intField(doc, "subject_credits"),
		SubjectType:      text(doc, "subject_types"),
		Batch:            text(doc, "batch"),
		Branch:           text(doc, "branch"),
		Semester:         text(doc, "semester"),
		FaceStatus:       optionalText(doc, "studentFaceRecognitionStatus"),
		QRStatus:         optionalText(doc, "studentQRCodeStatus"),
		ThumbStatus:      optionalText(doc, "studentThumbStatus"),
		FinalStatus:      optionalText(doc, "StudentsFinalStatus"),
		BookletNumber:    optionalText(doc, "studentBooketNumber"),
		RoomNumber:       optionalText(doc, "room_number"),
	}
}

// hallTicketPayload returns the stored hall ticket as base64 text. Tickets
// written as BSON binary are re-encoded so callers decode a single format.
func hallTicketPayload(doc bson.M) (string, bool) {
	switch v := doc[fieldHallTicket].(type) {
	case string:
		return v, true
	case primitive.Binary:
		return base64.StdEncoding.EncodeToString(v.Data), true
	case []byte:
		return base64.StdEncoding.EncodeToString(v), true
	default:
		return "", false
	}
}
