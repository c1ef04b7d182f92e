package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/repository"
)

// storeTimeout bounds every unit of store I/O started by a service call.
const storeTimeout = 5 * time.Second

type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Find(ctx context.Context, filter repository.UserFilter) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile models.Profile) (*models.User, error)
	LinkCaregiver(ctx context.Context, patientID, caregiverID primitive.ObjectID) (patient, caregiver *models.User, err error)
	UnlinkCaregiver(ctx context.Context, patientID, caregiverID primitive.ObjectID) (patient, caregiver *models.User, err error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, apt *models.Appointment) error
	FindAll(ctx context.Context) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Appointment, error)
}

// Transactor runs fn so that its writes commit together when the store
// supports it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SessionStore remembers revoked session token ids.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Notifier interface {
	AppointmentStatusChanged(apt *models.Appointment)
}

var (
	_ UserRepository        = (*repository.UserRepository)(nil)
	_ UserRepository        = (*repository.MemoryUserRepository)(nil)
	_ AppointmentRepository = (*repository.AppointmentRepository)(nil)
	_ AppointmentRepository = (*repository.MemoryAppointmentRepository)(nil)
	_ Transactor            = (*repository.MongoTransactor)(nil)
	_ Transactor            = (*repository.MemoryTransactor)(nil)
)
