package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/hospital-api/internal/models"
)

const AppointmentsCollection = "appointments"

type AppointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{coll: db.Collection(AppointmentsCollection)}
}

func (r *AppointmentRepository) Create(ctx context.Context, apt *models.Appointment) error {
	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, apt); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// FindAll returns every appointment, newest first.
func (r *AppointmentRepository) FindAll(ctx context.Context) ([]models.Appointment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appointments := make([]models.Appointment, 0)
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus sets the status of appointment id and returns the updated
// document.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Appointment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var apt models.Appointment
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}}, opts).Decode(&apt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update appointment %s: %w", id.Hex(), err)
	}
	return &apt, nil
}
