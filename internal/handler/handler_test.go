package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hallticket-portal/internal/dto"
	"github.com/noah-isme/hallticket-portal/internal/examstatus"
	"github.com/noah-isme/hallticket-portal/internal/middleware"
	"github.com/noah-isme/hallticket-portal/internal/models"
	"github.com/noah-isme/hallticket-portal/internal/service"
	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
	"github.com/noah-isme/hallticket-portal/pkg/response"
)

type authServiceMock struct {
	resp *models.LoginResponse
	err  error
	req  models.LoginRequest
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.req = req
	return m.resp, m.err
}

type profileServiceMock struct {
	student *models.Student
	err     error
}

func (m *profileServiceMock) Profile(ctx context.Context, session *models.SessionClaims) (*models.Student, error) {
	return m.student, m.err
}

type catalogServiceMock struct {
	sets []models.RecordSet
	err  error
}

func (m *catalogServiceMock) RecordSets(ctx context.Context, session *models.SessionClaims) ([]models.RecordSet, error) {
	return m.sets, m.err
}

type scheduleServiceMock struct {
	schedule    []dto.ScheduleRow
	status      []dto.StatusRow
	rooms       []dto.RoomRow
	err         error
	lastSet     string
	lastSubject string
}

func (m *scheduleServiceMock) Schedule(ctx context.Context, session *models.SessionClaims, recordSet string) ([]dto.ScheduleRow, error) {
	m.lastSet = recordSet
	return m.schedule, m.err
}

func (m *scheduleServiceMock) Status(ctx context.Context, session *models.SessionClaims, recordSet string) ([]dto.StatusRow, error) {
	m.lastSet = recordSet
	return m.status, m.err
}

func (m *scheduleServiceMock) Rooms(ctx context.Context, session *models.SessionClaims, recordSet, subject string) ([]dto.RoomRow, error) {
	m.lastSet = recordSet
	m.lastSubject = subject
	return m.rooms, m.err
}

type exporterMock struct {
	file       *service.ExportFile
	err        error
	lastFormat string
}

func (m *exporterMock) ExportSchedule(ctx context.Context, session *models.SessionClaims, recordSet, format string) (*service.ExportFile, error) {
	m.lastFormat = format
	return m.file, m.err
}

type hallTicketServiceMock struct {
	collections []string
	file        *models.HallTicketFile
	link        *dto.HallTicketLinkResponse
	err         error
	lastToken   string
}

func (m *hallTicketServiceMock) ListCollections(ctx context.Context) ([]string, error) {
	return m.collections, m.err
}

func (m *hallTicketServiceMock) Download(ctx context.Context, session *models.SessionClaims, collection string) (*models.HallTicketFile, error) {
	return m.file, m.err
}

func (m *hallTicketServiceMock) CreateLink(ctx context.Context, session *models.SessionClaims, collection string) (*dto.HallTicketLinkResponse, error) {
	return m.link, m.err
}

func (m *hallTicketServiceMock) DownloadByToken(ctx context.Context, token string) (*models.HallTicketFile, error) {
	m.lastToken = token
	return m.file, m.err
}

type fixture struct {
	auth     *authServiceMock
	profile  *profileServiceMock
	catalog  *catalogServiceMock
	schedule *scheduleServiceMock
	exporter *exporterMock
	tickets  *hallTicketServiceMock
	router   *gin.Engine
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{
		auth:     &authServiceMock{},
		profile:  &profileServiceMock{},
		catalog:  &catalogServiceMock{},
		schedule: &scheduleServiceMock{},
		exporter: &exporterMock{},
		tickets:  &hallTicketServiceMock{},
	}
	routes := Routes{
		Auth:        NewAuthHandler(f.auth),
		Student:     NewStudentHandler(f.profile),
		RecordSets:  NewRecordSetHandler(f.catalog),
		Schedule:    NewScheduleHandler(f.schedule, f.exporter),
		HallTickets: NewHallTicketHandler(f.tickets),
	}
	session := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer ok" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(middleware.ContextSessionKey, &models.SessionClaims{RollNumber: "21CS001", Batch: "2024", Branch: "CSE", Semester: "3"})
		c.Next()
	}
	f.router = gin.New()
	routes.Register(f.router, "/api/v1", session, func(c *gin.Context) { c.Next() })
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body []byte, authed bool) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer ok")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env response.Envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestLogin(t *testing.T) {
	f := newFixture()
	f.auth.resp = &models.LoginResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 3600}

	w, env := f.do(t, http.MethodPost, "/api/v1/auth/login", []byte(`{"roll_number":"21CS001"}`), false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, env.Data)
	assert.Equal(t, "21CS001", f.auth.req.RollNumber)
}

func TestLoginInvalidRollNumber(t *testing.T) {
	f := newFixture()
	f.auth.err = appErrors.ErrInvalidRollNumber

	w, env := f.do(t, http.MethodPost, "/api/v1/auth/login", []byte(`{"roll_number":"nope"}`), false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid roll number", env.Error.Message)
}

func TestLoginMalformedBody(t *testing.T) {
	f := newFixture()

	w, env := f.do(t, http.MethodPost, "/api/v1/auth/login", []byte(`{`), false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)
}

func TestSecuredRoutesRequireSession(t *testing.T) {
	f := newFixture()
	for _, path := range []string{"/api/v1/me", "/api/v1/record-sets", "/api/v1/record-sets/x/rooms", "/api/v1/hall-tickets/collections"} {
		w, _ := f.do(t, http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestProfile(t *testing.T) {
	f := newFixture()
	f.profile.student = &models.Student{RollNumber: "21CS001", FullName: "Asha Rao"}

	w, _ := f.do(t, http.MethodGet, "/api/v1/me", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Asha Rao")
}

func TestRecordSetsEmptyCatalogIsWarning(t *testing.T) {
	f := newFixture()
	f.catalog.sets = []models.RecordSet{}
	f.catalog.err = appErrors.Clone(appErrors.ErrEmptyResult, "No record sets found for this student.")

	w, env := f.do(t, http.MethodGet, "/api/v1/record-sets", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Warning)
	assert.JSONEq(t, `[]`, string(mustJSON(t, env.Data)))
}

func TestScheduleEmptyResultWarning(t *testing.T) {
	f := newFixture()
	f.schedule.schedule = []dto.ScheduleRow{}
	f.schedule.err = appErrors.Clone(appErrors.ErrEmptyResult, service.MsgNoSchedule)

	w, env := f.do(t, http.MethodGet, "/api/v1/record-sets/2024_CSE_3/schedule", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Warning)
	assert.Equal(t, service.MsgNoSchedule, env.Warning.Message)
	assert.Nil(t, env.Error)
	assert.Equal(t, "2024_CSE_3", f.schedule.lastSet)
}

func TestStatusUnknownRecordSet(t *testing.T) {
	f := newFixture()
	f.schedule.err = appErrors.Clone(appErrors.ErrNotFound, "record set not found")

	w, env := f.do(t, http.MethodGet, "/api/v1/record-sets/2023_CSE_3/status", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Warning)
	assert.Nil(t, env.Data)
}

func TestRoomsRowsAndSubjectQuery(t *testing.T) {
	f := newFixture()
	f.schedule.rooms = []dto.RoomRow{
		{Date: "2025-03-12", Subject: "Operating Systems", State: &examstatus.DisplayState{State: examstatus.RevealRoom, RoomNumber: "204"}},
		{Date: "2025-13-40", Subject: "Data Structures", Error: &dto.RowError{Code: appErrors.ErrInvalidDateFormat.Code}},
	}

	w, _ := f.do(t, http.MethodGet, "/api/v1/record-sets/2024_CSE_3/rooms?subject=CS301", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CS301", f.schedule.lastSubject)
	assert.Contains(t, w.Body.String(), `"room_number":"204"`)
	assert.Contains(t, w.Body.String(), "INVALID_DATE_FORMAT")
}

func TestStoreFailureIsError(t *testing.T) {
	f := newFixture()
	f.schedule.err = appErrors.Clone(appErrors.ErrStoreUnavailable, "failed to load exam records")

	w, env := f.do(t, http.MethodGet, "/api/v1/record-sets/2024_CSE_3/rooms", nil, true)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NotNil(t, env.Error)
	assert.Nil(t, env.Warning)
}

func TestScheduleExport(t *testing.T) {
	f := newFixture()
	f.exporter.file = &service.ExportFile{Filename: "21CS001_2024_CSE_3_schedule.csv", ContentType: "text/csv", Data: []byte("Date\n")}

	w, _ := f.do(t, http.MethodGet, "/api/v1/record-sets/2024_CSE_3/schedule/export?format=csv", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", f.exporter.lastFormat)
	assert.Equal(t, `attachment; filename="21CS001_2024_CSE_3_schedule.csv"`, w.Header().Get("Content-Disposition"))
}

func TestHallTicketDownload(t *testing.T) {
	f := newFixture()
	f.tickets.file = &models.HallTicketFile{Filename: "21CS001_hall_ticket.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}

	w, _ := f.do(t, http.MethodGet, "/api/v1/hall-tickets/Regular_2025/download", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="21CS001_hall_ticket.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}

func TestHallTicketDownloadMissing(t *testing.T) {
	f := newFixture()
	f.tickets.err = appErrors.Clone(appErrors.ErrNotFound, service.MsgNoHallTicket)

	w, env := f.do(t, http.MethodGet, "/api/v1/hall-tickets/Regular_2025/download", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Warning)
	assert.Equal(t, service.MsgNoHallTicket, env.Warning.Message)
}

func TestHallTicketLinkAndPublicDownload(t *testing.T) {
	f := newFixture()
	f.tickets.link = &dto.HallTicketLinkResponse{URL: "https://portal.example.edu/api/v1/downloads/hall-tickets/abc", ExpiresAt: time.Now().Add(time.Minute)}
	f.tickets.file = &models.HallTicketFile{Filename: "21CS001_hall_ticket.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}

	w, _ := f.do(t, http.MethodPost, "/api/v1/hall-tickets/Regular_2025/link", nil, true)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = f.do(t, http.MethodGet, "/api/v1/downloads/hall-tickets/abc", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", f.tickets.lastToken)
}

func TestHallTicketCollections(t *testing.T) {
	f := newFixture()
	f.tickets.collections = []string{"Regular_2025"}

	w, _ := f.do(t, http.MethodGet, "/api/v1/hall-tickets/collections", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Regular_2025")
}

func TestReadiness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(service.NewMetricsService(), map[string]ReadinessCheck{
		"store": func(ctx context.Context) error { return nil },
		"cache": func(ctx context.Context) error { return context.DeadlineExceeded },
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	h.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"store":"ok"`)
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
