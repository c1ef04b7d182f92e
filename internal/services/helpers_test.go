package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/hospital-api/internal/cache"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/repository"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

var _ SessionStore = (*cache.MemorySessionStore)(nil)
var _ SessionStore = (*cache.RedisSessionStore)(nil)
var _ Notifier = (*NotificationService)(nil)

type recordingNotifier struct {
	mu  sync.Mutex
	got []models.Appointment
}

func (n *recordingNotifier) AppointmentStatusChanged(apt *models.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, *apt)
}

func (n *recordingNotifier) calls() []models.Appointment {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Appointment(nil), n.got...)
}

type fixture struct {
	users        *repository.MemoryUserRepository
	appointments *repository.MemoryAppointmentRepository
	sessions     *cache.MemorySessionStore
	tokens       *utils.TokenManager
	notifier     *recordingNotifier

	userSvc        *UserService
	caregiverSvc   *CaregiverService
	appointmentSvc *AppointmentService
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := quietLogger()

	f := &fixture{
		users:        repository.NewMemoryUserRepository(),
		appointments: repository.NewMemoryAppointmentRepository(),
		sessions:     cache.NewMemorySessionStore(),
		tokens:       utils.NewTokenManager("test-secret", time.Hour),
		notifier:     &recordingNotifier{},
	}
	validator := utils.NewValidator()
	f.userSvc = NewUserService(f.users, f.sessions, f.tokens, validator, log, bcrypt.MinCost)
	f.caregiverSvc = NewCaregiverService(f.users, repository.NewMemoryTransactor(), validator, log)
	f.appointmentSvc = NewAppointmentService(f.appointments, f.users, f.notifier, validator, log)
	return f
}

func validProfile() ProfileInput {
	return ProfileInput{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@x.com",
		Phone:     "01234567890",
		NIC:       "1234567890123",
		DOB:       "1990-01-01",
		Gender:    "Female",
	}
}

func validRegister() RegisterInput {
	return RegisterInput{
		ProfileInput: validProfile(),
		Password:     "verysecurepw1",
		Role:         models.RolePatient,
	}
}

// seedUser stores a user with password "verysecurepw1". edits run before
// the insert.
func (f *fixture) seedUser(t *testing.T, role, firstName, email string, edits ...func(*models.User)) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("verysecurepw1", bcrypt.MinCost)
	require.NoError(t, err)

	user := models.NewUser(role)
	user.FirstName = firstName
	user.LastName = "Smith"
	user.Email = email
	user.Phone = "01234567890"
	user.NIC = "1234567890123"
	user.Gender = "Male"
	user.DOB = time.Date(1985, 5, 5, 0, 0, 0, 0, time.UTC)
	user.Password = hash
	for _, edit := range edits {
		edit(user)
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}
