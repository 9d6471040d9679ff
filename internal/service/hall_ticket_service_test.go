package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hallticket-portal/internal/hallticket"
	"github.com/noah-isme/hallticket-portal/internal/models"
	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
	"github.com/noah-isme/hallticket-portal/pkg/storage"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF")

func hallTicketFixture() (*HallTicketService, *mockHallTicketRepo) {
	repo := &mockHallTicketRepo{
		collections: []string{"Supply_2025", "Regular_2025"},
		tickets: map[string]models.HallTicket{
			"Regular_2025/21CS001": {Collection: "Regular_2025", RollNumber: "21CS001", Payload: hallticket.Encode(samplePDF)},
			"Regular_2025/21CS003": {Collection: "Regular_2025", RollNumber: "21CS003", Payload: "@@@"},
		},
	}
	signer := storage.NewSignedURLSigner("link-secret", 15*time.Minute)
	svc := NewHallTicketService(repo, signer, nil, nil, nil, HallTicketConfig{
		PublicBaseURL: "https://portal.example.edu/",
		APIPrefix:     "/api/v1",
		StoreTimeout:  time.Second,
	})
	return svc, repo
}

func TestHallTicketServiceListCollectionsSorted(t *testing.T) {
	svc, _ := hallTicketFixture()

	names, err := svc.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Regular_2025", "Supply_2025"}, names)
}

func TestHallTicketServiceDownload(t *testing.T) {
	svc, _ := hallTicketFixture()

	file, err := svc.Download(context.Background(), testSession(), "Regular_2025")
	require.NoError(t, err)
	assert.Equal(t, "21CS001_hall_ticket.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, samplePDF, file.Data)
}

func TestHallTicketServiceDownloadMissing(t *testing.T) {
	svc, _ := hallTicketFixture()

	_, err := svc.Download(context.Background(), testSession(), "Supply_2025")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, MsgNoHallTicket, appErrors.FromError(err).Message)

	session := testSession()
	session.RollNumber = "21CS003"
	_, err = svc.Download(context.Background(), session, "Regular_2025")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestHallTicketServiceStoreFailure(t *testing.T) {
	svc, repo := hallTicketFixture()
	repo.findErr = errors.New("server selection error")

	_, err := svc.Download(context.Background(), testSession(), "Regular_2025")
	assert.Equal(t, appErrors.ErrStoreUnavailable.Code, appErrors.FromError(err).Code)
}

func TestHallTicketServiceSignedLinkRoundTrip(t *testing.T) {
	svc, _ := hallTicketFixture()

	link, err := svc.CreateLink(context.Background(), testSession(), "Regular_2025")
	require.NoError(t, err)
	prefix := "https://portal.example.edu/api/v1/downloads/hall-tickets/"
	require.True(t, strings.HasPrefix(link.URL, prefix))
	assert.True(t, link.ExpiresAt.After(time.Now()))

	token, err := url.PathUnescape(strings.TrimPrefix(link.URL, prefix))
	require.NoError(t, err)
	file, err := svc.DownloadByToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, samplePDF, file.Data)

	_, err = svc.DownloadByToken(context.Background(), token+"0")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestHallTicketServiceCreateLinkRequiresTicket(t *testing.T) {
	svc, _ := hallTicketFixture()

	_, err := svc.CreateLink(context.Background(), testSession(), "Supply_2025")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
