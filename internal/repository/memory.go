package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/hospital-api/internal/models"
)

// MemoryUserRepository keeps users in process memory. Stored documents are
// copied on every read and write so callers never share state with the store.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return user.Clone(), nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			return user.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) Find(_ context.Context, filter UserFilter) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]models.User, 0)
	for _, user := range r.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.FirstName != "" && user.FirstName != filter.FirstName {
			continue
		}
		if filter.LastName != "" && user.LastName != filter.LastName {
			continue
		}
		if filter.Department != "" && user.DoctorDepartment != filter.Department {
			continue
		}
		users = append(users, *user.Clone())
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if r.emailTaken(user.Email, user.ID) {
		return ErrDuplicateEmail
	}
	r.users[user.ID] = user.Clone()
	return nil
}

func (r *MemoryUserRepository) UpdateProfile(_ context.Context, id primitive.ObjectID, p models.Profile) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.emailTaken(p.Email, id) {
		return nil, ErrDuplicateEmail
	}
	user.ApplyProfile(p)
	user.UpdatedAt = time.Now().UTC()
	return user.Clone(), nil
}

func (r *MemoryUserRepository) LinkCaregiver(_ context.Context, patientID, caregiverID primitive.ObjectID) (*models.User, *models.User, error) {
	return r.updatePair(patientID, caregiverID, func(patient, caregiver *models.User) {
		patient.Caregivers = append(patient.Caregivers, caregiverID)
		caregiver.Patients = append(caregiver.Patients, patientID)
		caregiver.OngoingAssignments = append(caregiver.OngoingAssignments, patientID)
	})
}

func (r *MemoryUserRepository) UnlinkCaregiver(_ context.Context, patientID, caregiverID primitive.ObjectID) (*models.User, *models.User, error) {
	return r.updatePair(patientID, caregiverID, func(patient, caregiver *models.User) {
		patient.Caregivers = models.RemoveID(patient.Caregivers, caregiverID)
		caregiver.Patients = models.RemoveID(caregiver.Patients, patientID)
		caregiver.OngoingAssignments = models.RemoveID(caregiver.OngoingAssignments, patientID)
	})
}

// updatePair applies fn to the stored documents under the write lock and
// recomputes the caregiver's availability.
func (r *MemoryUserRepository) updatePair(patientID, caregiverID primitive.ObjectID, fn func(patient, caregiver *models.User)) (*models.User, *models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	patient, ok := r.users[patientID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	caregiver, ok := r.users[caregiverID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	fn(patient, caregiver)
	caregiver.CaregiverAvailability = caregiver.Available()
	now := time.Now().UTC()
	patient.UpdatedAt = now
	caregiver.UpdatedAt = now
	return patient.Clone(), caregiver.Clone(), nil
}

func (r *MemoryUserRepository) emailTaken(email string, except primitive.ObjectID) bool {
	for id, user := range r.users {
		if id != except && user.Email == email {
			return true
		}
	}
	return false
}

// Count returns the number of stored users.
func (r *MemoryUserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

type MemoryAppointmentRepository struct {
	mu           sync.RWMutex
	appointments map[primitive.ObjectID]models.Appointment
}

func NewMemoryAppointmentRepository() *MemoryAppointmentRepository {
	return &MemoryAppointmentRepository{appointments: make(map[primitive.ObjectID]models.Appointment)}
}

func (r *MemoryAppointmentRepository) Create(_ context.Context, apt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}
	r.appointments[apt.ID] = *apt
	return nil
}

func (r *MemoryAppointmentRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	apt, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &apt, nil
}

func (r *MemoryAppointmentRepository) FindAll(_ context.Context) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	appointments := make([]models.Appointment, 0, len(r.appointments))
	for _, apt := range r.appointments {
		appointments = append(appointments, apt)
	}
	sort.SliceStable(appointments, func(i, j int) bool {
		return appointments[i].CreatedAt.After(appointments[j].CreatedAt)
	})
	return appointments, nil
}

func (r *MemoryAppointmentRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	apt.Status = status
	r.appointments[id] = apt
	return &apt, nil
}

// MemoryTransactor serializes units of work. It does not roll back.
type MemoryTransactor struct {
	mu sync.Mutex
}

func NewMemoryTransactor() *MemoryTransactor {
	return &MemoryTransactor{}
}

func (t *MemoryTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}
