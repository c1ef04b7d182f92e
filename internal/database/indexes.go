package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/hospital-api/internal/repository"
)

func EnsureUserIndexes(db *mongo.Database, log *logrus.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(repository.UsersCollection).Indexes()
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("role_index"),
		},
	}

	log.WithField("collection", repository.UsersCollection).Info("EnsureUserIndexes: creating indexes")
	if _, err := indexes.CreateMany(ctx, models); err != nil {
		log.WithError(err).Warn("EnsureUserIndexes: index error")
		return err
	}
	return nil
}

func EnsureAppointmentIndexes(db *mongo.Database, log *logrus.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(repository.AppointmentsCollection).Indexes()
	patientIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "patientId", Value: 1}},
		Options: options.Index().SetName("patientId_index"),
	}

	log.WithField("collection", repository.AppointmentsCollection).Info("EnsureAppointmentIndexes: creating indexes")
	if _, err := indexes.CreateOne(ctx, patientIndex); err != nil {
		log.WithError(err).Warn("EnsureAppointmentIndexes: index error")
		return err
	}
	return nil
}
