// Package mongostore reads the portal data from the legacy document layout:
// a students collection, one validation collection per record set and one
// hall ticket collection per issuance batch.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/hallticket-portal/internal/catalog"
	"github.com/noah-isme/hallticket-portal/internal/models"
	"github.com/noah-isme/hallticket-portal/pkg/config"
)

// StudentRepository reads student profiles.
type StudentRepository struct {
	students *mongo.Collection
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(client *mongo.Client, cfg config.MongoConfig) *StudentRepository {
	return &StudentRepository{students: client.Database(cfg.StudentsDB).Collection(cfg.StudentsCollection)}
}

// FindByRollNumber returns mongo.ErrNoDocuments when the roll number is unknown.
func (r *StudentRepository) FindByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error) {
	var doc bson.M
	opts := options.FindOne().SetProjection(bson.M{"_id": 0})
	if err := r.students.FindOne(ctx, bson.M{fieldRollNumber: rollNumber}, opts).Decode(&doc); err != nil {
		return nil, err
	}
	student := studentFromDocument(doc)
	return &student, nil
}

// RecordSetRepository discovers record sets from validation collection names.
type RecordSetRepository struct {
	db *mongo.Database
}

// NewRecordSetRepository constructs a RecordSetRepository.
func NewRecordSetRepository(client *mongo.Client, cfg config.MongoConfig) *RecordSetRepository {
	return &RecordSetRepository{db: client.Database(cfg.ValidationDB)}
}

func (r *RecordSetRepository) listNames(ctx context.Context) ([]string, error) {
	names, err := r.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list validation collections: %w", err)
	}
	return names, nil
}

// ListByCohort returns the collections whose names encode cohort.
func (r *RecordSetRepository) ListByCohort(ctx context.Context, cohort models.Cohort) ([]models.RecordSet, error) {
	names, err := r.listNames(ctx)
	if err != nil {
		return nil, err
	}
	matched := catalog.Filter(names, cohort)
	sets := make([]models.RecordSet, 0, len(matched))
	for _, name := range matched {
		sets = append(sets, models.RecordSet{Name: name, Batch: cohort.Batch, Branch: cohort.Branch, Semester: cohort.Semester})
	}
	return sets, nil
}

// ExamRecordRepository reads exam records from a validation collection.
type ExamRecordRepository struct {
	db  *mongo.Database
	loc *time.Location
}

// NewExamRecordRepository constructs an ExamRecordRepository. BSON exam dates
// are read as calendar dates in loc.
func NewExamRecordRepository(client *mongo.Client, cfg config.MongoConfig, loc *time.Location) *ExamRecordRepository {
	return &ExamRecordRepository{db: client.Database(cfg.ValidationDB), loc: loc}
}

// FindForStudent returns the student's documents in recordSet ordered by date
// and time.
func (r *ExamRecordRepository) FindForStudent(ctx context.Context, recordSet, rollNumber string) ([]models.ExamRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := r.db.Collection(recordSet).Find(ctx, bson.M{fieldHallTicketNumber: rollNumber}, opts)
	if err != nil {
		return nil, fmt.Errorf("find exam records in %s: %w", recordSet, err)
	}
	defer cursor.Close(ctx)

	records := make([]models.ExamRecord, 0)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode exam record in %s: %w", recordSet, err)
		}
		records = append(records, examRecordFromDocument(recordSet, doc, r.loc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate exam records in %s: %w", recordSet, err)
	}
	return records, nil
}

// HallTicketRepository reads hall tickets from the hall ticket database.
type HallTicketRepository struct {
	db *mongo.Database
}

// NewHallTicketRepository constructs a HallTicketRepository.
func NewHallTicketRepository(client *mongo.Client, cfg config.MongoConfig) *HallTicketRepository {
	return &HallTicketRepository{db: client.Database(cfg.HallTicketsDB)}
}

// ListCollections returns the hall ticket collection names.
func (r *HallTicketRepository) ListCollections(ctx context.Context) ([]string, error) {
	names, err := r.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list hall ticket collections: %w", err)
	}
	return names, nil
}

// Find returns mongo.ErrNoDocuments when the student has no ticket in the
// collection or the stored ticket carries no payload.
func (r *HallTicketRepository) Find(ctx context.Context, collection, rollNumber string) (*models.HallTicket, error) {
	var doc bson.M
	opts := options.FindOne().SetProjection(bson.M{fieldHallTicket: 1, "_id": 0})
	if err := r.db.Collection(collection).FindOne(ctx, bson.M{fieldRollNumber: rollNumber}, opts).Decode(&doc); err != nil {
		return nil, err
	}
	payload, ok := hallTicketPayload(doc)
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &models.HallTicket{Collection: collection, RollNumber: rollNumber, Payload: payload}, nil
}
