package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/hallticket-portal/internal/models"
	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
)

func testSession() *models.SessionClaims {
	return &models.SessionClaims{RollNumber: "21CS001", Batch: "2024", Branch: "CSE", Semester: "3"}
}

func strPtr(v string) *string { return &v }

type mockStudentRepo struct {
	students map[string]models.Student
	err      error
}

func (m *mockStudentRepo) FindByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.students[rollNumber]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

type mockRecordSetRepo struct {
	sets  []models.RecordSet
	err   error
	calls int
}

func (m *mockRecordSetRepo) ListByCohort(ctx context.Context, cohort models.Cohort) ([]models.RecordSet, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.RecordSet, 0)
	for _, s := range m.sets {
		if s.Batch == cohort.Batch && s.Branch == cohort.Branch && s.Semester == cohort.Semester {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockExamRecordRepo struct {
	records map[string][]models.ExamRecord
	err     error
	sawDeadline bool
}

func (m *mockExamRecordRepo) FindForStudent(ctx context.Context, recordSet, rollNumber string) ([]models.ExamRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := ctx.Deadline(); ok {
		m.sawDeadline = true
	}
	out := make([]models.ExamRecord, 0)
	for _, r := range m.records[recordSet] {
		if r.HallTicketNumber == rollNumber {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockHallTicketRepo struct {
	collections []string
	tickets     map[string]models.HallTicket
	listErr     error
	findErr     error
}

func (m *mockHallTicketRepo) ListCollections(ctx context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.collections, nil
}

func (m *mockHallTicketRepo) Find(ctx context.Context, collection, rollNumber string) (*models.HallTicket, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if t, ok := m.tickets[collection+"/"+rollNumber]; ok {
		return &t, nil
	}
	return nil, mongo.ErrNoDocuments
}

type memoryCacheRepo struct {
	entries map[string][]byte
	sets    int
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.sets++
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}
