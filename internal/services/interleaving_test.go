package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/repository"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

// hookedUsers runs a callback once, just before the next write of that kind
// reaches the store.
type hookedUsers struct {
	*repository.MemoryUserRepository
	beforeProfile func()
	beforeLink    func()
}

func (h *hookedUsers) UpdateProfile(ctx context.Context, id primitive.ObjectID, p models.Profile) (*models.User, error) {
	if fn := h.beforeProfile; fn != nil {
		h.beforeProfile = nil
		fn()
	}
	return h.MemoryUserRepository.UpdateProfile(ctx, id, p)
}

func (h *hookedUsers) LinkCaregiver(ctx context.Context, patientID, caregiverID primitive.ObjectID) (*models.User, *models.User, error) {
	if fn := h.beforeLink; fn != nil {
		h.beforeLink = nil
		fn()
	}
	return h.MemoryUserRepository.LinkCaregiver(ctx, patientID, caregiverID)
}

// directTransactor runs work without serializing it, like Mongo with
// transactions disabled.
type directTransactor struct{}

func (directTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newHookedServices(f *fixture) (*hookedUsers, *UserService, *CaregiverService) {
	users := &hookedUsers{MemoryUserRepository: f.users}
	validator := utils.NewValidator()
	userSvc := NewUserService(users, f.sessions, f.tokens, validator, quietLogger(), 4)
	caregiverSvc := NewCaregiverService(users, directTransactor{}, validator, quietLogger())
	return users, userSvc, caregiverSvc
}

func TestProfileUpdateDoesNotDropConcurrentAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.seedUser(t, models.RolePatient, "Paula", "paula@x.com")
	caregiver := f.seedUser(t, models.RoleCaregiver, "Carla", "carla@x.com")
	users, userSvc, caregiverSvc := newHookedServices(f)

	users.beforeProfile = func() {
		_, err := caregiverSvc.Assign(ctx, AssignmentInput{PatientID: patient.ID.Hex(), CaregiverID: caregiver.ID.Hex()})
		require.NoError(t, err)
	}
	updated, err := userSvc.UpdateProfile(ctx, patient.ID, validProfile())
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.FirstName)

	storedPatient, err := f.users.FindByID(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", storedPatient.FirstName)
	assert.Equal(t, []primitive.ObjectID{caregiver.ID}, storedPatient.Caregivers)

	storedCaregiver, err := f.users.FindByID(ctx, caregiver.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{patient.ID}, storedCaregiver.Patients)
}

func TestConcurrentAssignmentsToOneCaregiverKeepBothPatients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.seedUser(t, models.RolePatient, "Paula", "paula@x.com")
	second := f.seedUser(t, models.RolePatient, "Peter", "peter@x.com")
	caregiver := f.seedUser(t, models.RoleCaregiver, "Carla", "carla@x.com")
	users, _, caregiverSvc := newHookedServices(f)

	users.beforeLink = func() {
		_, err := caregiverSvc.Assign(ctx, AssignmentInput{PatientID: second.ID.Hex(), CaregiverID: caregiver.ID.Hex()})
		require.NoError(t, err)
	}
	result, err := caregiverSvc.Assign(ctx, AssignmentInput{PatientID: first.ID.Hex(), CaregiverID: caregiver.ID.Hex()})
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{first.ID, second.ID}, result.Caregiver.OngoingAssignments)

	ongoing, err := caregiverSvc.OngoingAssignments(ctx, caregiver.ID.Hex())
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{first.ID, second.ID}, ongoing)

	storedCaregiver, err := f.users.FindByID(ctx, caregiver.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{first.ID, second.ID}, storedCaregiver.Patients)
	assert.False(t, storedCaregiver.CaregiverAvailability)
}
