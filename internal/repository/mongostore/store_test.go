package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/noah-isme/hallticket-portal/internal/models"
)

var testCohort = models.Cohort{Batch: "2024", Branch: "CSE", Semester: "3"}

func newMockDeployment(t *testing.T) *mtest.T {
	t.Helper()
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestStudentRepositoryFindByRollNumber(t *testing.T) {
	mt := newMockDeployment(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := &StudentRepository{students: mt.Client.Database("StudentsDB").Collection("StudentsCollection")}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "StudentsDB.StudentsCollection", mtest.FirstBatch, bson.D{
			{Key: "roll_number", Value: "21CS001"},
			{Key: "fullname", Value: "Asha Rao"},
			{Key: "semester", Value: int32(3)},
		}))

		student, err := repo.FindByRollNumber(context.Background(), "21CS001")
		require.NoError(mt, err)
		assert.Equal(mt, "Asha Rao", student.FullName)
		assert.Equal(mt, "3", student.Semester)
	})

	mt.Run("unknown roll number", func(mt *mtest.T) {
		repo := &StudentRepository{students: mt.Client.Database("StudentsDB").Collection("StudentsCollection")}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "StudentsDB.StudentsCollection", mtest.FirstBatch))

		_, err := repo.FindByRollNumber(context.Background(), "21CS999")
		assert.True(mt, errors.Is(err, mongo.ErrNoDocuments))
	})
}

func TestRecordSetRepositoryListByCohortFiltersCollectionNames(t *testing.T) {
	mt := newMockDeployment(t)

	mt.Run("token match", func(mt *mtest.T) {
		repo := &RecordSetRepository{db: mt.Client.Database("validationDB")}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "validationDB.$cmd.listCollections", mtest.FirstBatch,
			bson.D{{Key: "name", Value: "2024_CSE_3"}, {Key: "type", Value: "collection"}},
			bson.D{{Key: "name", Value: "2024_ECE_3"}, {Key: "type", Value: "collection"}},
			bson.D{{Key: "name", Value: "2023_CSE_3"}, {Key: "type", Value: "collection"}},
			bson.D{{Key: "name", Value: "202_CSE_3"}, {Key: "type", Value: "collection"}},
		))

		sets, err := repo.ListByCohort(context.Background(), testCohort)
		require.NoError(mt, err)
		require.Len(mt, sets, 1)
		assert.Equal(mt, models.RecordSet{Name: "2024_CSE_3", Batch: "2024", Branch: "CSE", Semester: "3"}, sets[0])
	})

	mt.Run("listing fails", func(mt *mtest.T) {
		repo := &RecordSetRepository{db: mt.Client.Database("validationDB")}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Name: "Unauthorized", Message: "not authorized"}))

		_, err := repo.ListByCohort(context.Background(), testCohort)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "list validation collections")
	})
}

func TestExamRecordRepositoryFindForStudent(t *testing.T) {
	mt := newMockDeployment(t)

	mt.Run("bson dates read in zone", func(mt *mtest.T) {
		ist := time.FixedZone("IST", 5*3600+30*60)
		repo := &ExamRecordRepository{db: mt.Client.Database("validationDB"), loc: ist}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "validationDB.2024_CSE_3", mtest.FirstBatch,
			bson.D{
				{Key: "hall_ticket_number", Value: "21CS001"},
				{Key: "date", Value: primitive.NewDateTimeFromTime(time.Date(2025, 3, 12, 0, 0, 0, 0, ist))},
				{Key: "subject", Value: "Operating Systems"},
				{Key: "room_number", Value: "204"},
			},
			bson.D{
				{Key: "hall_ticket_number", Value: "21CS001"},
				{Key: "date", Value: "2025-03-14"},
				{Key: "subject", Value: "Compilers"},
			},
		))

		records, err := repo.FindForStudent(context.Background(), "2024_CSE_3", "21CS001")
		require.NoError(mt, err)
		require.Len(mt, records, 2)
		assert.Equal(mt, "2025-03-12", records[0].Date)
		assert.Equal(mt, "2024_CSE_3", records[0].RecordSet)
		require.NotNil(mt, records[0].RoomNumber)
		assert.Equal(mt, "204", *records[0].RoomNumber)
		assert.Equal(mt, "2025-03-14", records[1].Date)
		assert.Nil(mt, records[1].RoomNumber)
	})
}

func TestHallTicketRepositoryFind(t *testing.T) {
	mt := newMockDeployment(t)

	mt.Run("payload present", func(mt *mtest.T) {
		repo := &HallTicketRepository{db: mt.Client.Database("HallTicketsDB")}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "HallTicketsDB.Regular_2025", mtest.FirstBatch,
			bson.D{{Key: "hall_ticket", Value: "JVBERi0xLjQ="}},
		))

		ticket, err := repo.Find(context.Background(), "Regular_2025", "21CS001")
		require.NoError(mt, err)
		assert.Equal(mt, "JVBERi0xLjQ=", ticket.Payload)
		assert.Equal(mt, "Regular_2025", ticket.Collection)
		assert.Equal(mt, "21CS001", ticket.RollNumber)
	})

	mt.Run("missing payload", func(mt *mtest.T) {
		repo := &HallTicketRepository{db: mt.Client.Database("HallTicketsDB")}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "HallTicketsDB.Regular_2025", mtest.FirstBatch, bson.D{}))

		_, err := repo.Find(context.Background(), "Regular_2025", "21CS001")
		assert.True(mt, errors.Is(err, mongo.ErrNoDocuments))
	})

	mt.Run("no ticket", func(mt *mtest.T) {
		repo := &HallTicketRepository{db: mt.Client.Database("HallTicketsDB")}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "HallTicketsDB.Regular_2025", mtest.FirstBatch))

		_, err := repo.Find(context.Background(), "Regular_2025", "21CS002")
		assert.True(mt, errors.Is(err, mongo.ErrNoDocuments))
	})

	mt.Run("collections", func(mt *mtest.T) {
		repo := &HallTicketRepository{db: mt.Client.Database("HallTicketsDB")}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "HallTicketsDB.$cmd.listCollections", mtest.FirstBatch,
			bson.D{{Key: "name", Value: "Regular_2025"}, {Key: "type", Value: "collection"}},
			bson.D{{Key: "name", Value: "Supply_2025"}, {Key: "type", Value: "collection"}},
		))

		names, err := repo.ListCollections(context.Background())
		require.NoError(mt, err)
		assert.ElementsMatch(mt, []string{"Regular_2025", "Supply_2025"}, names)
	})
}
