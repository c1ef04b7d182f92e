package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/hospital-api/internal/apperror"
	"github.com/harentsoaR/hospital-api/internal/models"
)

func (f *fixture) seedDoctor(t *testing.T, firstName, email, department string) *models.User {
	t.Helper()
	return f.seedUser(t, models.RoleDoctor, firstName, email, func(u *models.User) {
		u.DoctorDepartment = department
	})
}

func validBooking() BookingInput {
	return BookingInput{
		ProfileInput:    validProfile(),
		AppointmentDate: "2026-11-02",
		Department:      "Cardiology",
		DoctorFirstName: "Derek",
		DoctorLastName:  "Smith",
		Address:         "12 Main Street",
	}
}

func TestBookCreatesPendingAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.seedUser(t, models.RolePatient, "Paula", "paula@x.com")
	doctor := f.seedDoctor(t, "Derek", "derek@x.com", "Cardiology")
	f.seedDoctor(t, "Derek", "derek2@x.com", "Neurology")

	apt, err := f.appointmentSvc.Book(ctx, patient, validBooking())
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentPending, apt.Status)
	assert.Equal(t, doctor.ID, apt.DoctorID)
	assert.Equal(t, patient.ID, apt.PatientID)
	assert.Equal(t, models.DoctorName{FirstName: "Derek", LastName: "Smith"}, apt.Doctor)

	all, err := f.appointmentSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, apt.ID, all[0].ID)
}

func TestBookDoctorResolution(t *testing.T) {
	t.Run("no match", func(t *testing.T) {
		f := newFixture(t)
		patient := f.seedUser(t, models.RolePatient, "Paula", "paula@x.com")
		f.seedDoctor(t, "Derek", "derek@x.com", "Neurology")

		_, err := f.appointmentSvc.Book(context.Background(), patient, validBooking())
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
		assert.Equal(t, "Doctor not found!", apperror.From(err).Message)
	})

	t.Run("ambiguous match", func(t *testing.T) {
		f := newFixture(t)
		patient := f.seedUser(t, models.RolePatient, "Paula", "paula@x.com")
		f.seedDoctor(t, "Derek", "derek@x.com", "Cardiology")
		f.seedDoctor(t, "Derek", "derek2@x.com", "Cardiology")

		_, err := f.appointmentSvc.Book(context.Background(), patient, validBooking())
		assert.True(t, apperror.Is(err, apperror.KindConflict))
		all, listErr := f.appointmentSvc.List(context.Background())
		require.NoError(t, listErr)
		assert.Empty(t, all)
	})
}

func TestBookMissingFieldIsValidationError(t *testing.T) {
	f := newFixture(t)
	patient := f.seedUser(t, models.RolePatient, "Paula", "paula@x.com")
	input := validBooking()
	input.Address = "   "

	_, err := f.appointmentSvc.Book(context.Background(), patient, input)
	require.Error(t, err)
	assert.Equal(t, "Please Fill Full Form!", apperror.From(err).Message)
}

func TestUpdateStatusNotifiesPatient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.seedUser(t, models.RolePatient, "Paula", "paula@x.com")
	f.seedDoctor(t, "Derek", "derek@x.com", "Cardiology")
	apt, err := f.appointmentSvc.Book(ctx, patient, validBooking())
	require.NoError(t, err)

	updated, err := f.appointmentSvc.UpdateStatus(ctx, apt.ID.Hex(), StatusInput{Status: models.AppointmentAccepted})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentAccepted, updated.Status)

	stored, err := f.appointments.FindByID(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentAccepted, stored.Status)

	calls := f.notifier.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, apt.ID, calls[0].ID)
}

func TestUpdateStatusErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.appointmentSvc.UpdateStatus(ctx, primitive.NewObjectID().Hex(), StatusInput{})
	assert.Equal(t, "Please Provide Appointment Status!", apperror.From(err).Message)

	_, err = f.appointmentSvc.UpdateStatus(ctx, primitive.NewObjectID().Hex(), StatusInput{Status: "Done"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.appointmentSvc.UpdateStatus(ctx, primitive.NewObjectID().Hex(), StatusInput{Status: models.AppointmentRejected})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.appointmentSvc.UpdateStatus(ctx, "bad-id", StatusInput{Status: models.AppointmentRejected})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	assert.Empty(t, f.notifier.calls())
}
