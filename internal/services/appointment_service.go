package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/hospital-api/internal/apperror"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/repository"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

const msgAppointmentNotFound = "Appointment not found!"

type AppointmentService struct {
	appointments AppointmentRepository
	users        UserRepository
	notifier     Notifier
	validator    *utils.Validator
	log          *logrus.Logger
}

func NewAppointmentService(appointments AppointmentRepository, users UserRepository, notifier Notifier, validator *utils.Validator, log *logrus.Logger) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		users:        users,
		notifier:     notifier,
		validator:    validator,
		log:          log,
	}
}

// Book stores a pending appointment for patient with the one doctor that
// matches the requested name and department.
func (s *AppointmentService) Book(ctx context.Context, patient *models.User, input BookingInput) (*models.Appointment, error) {
	input.normalize()
	input.AppointmentDate = strings.TrimSpace(input.AppointmentDate)
	input.Department = strings.TrimSpace(input.Department)
	input.DoctorFirstName = strings.TrimSpace(input.DoctorFirstName)
	input.DoctorLastName = strings.TrimSpace(input.DoctorLastName)
	input.Address = strings.TrimSpace(input.Address)
	if err := s.validator.Struct(input, msgFillFullForm); err != nil {
		return nil, err
	}
	dob, err := parseDOB(input.DOB)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	doctors, err := s.users.Find(ctx, repository.UserFilter{
		Role:       models.RoleDoctor,
		FirstName:  input.DoctorFirstName,
		LastName:   input.DoctorLastName,
		Department: input.Department,
	})
	if err != nil {
		return nil, fmt.Errorf("book doctor lookup: %w", err)
	}
	switch {
	case len(doctors) == 0:
		return nil, apperror.NotFound("Doctor not found!")
	case len(doctors) > 1:
		return nil, apperror.Conflict("Doctors Conflict! Please Contact Through Email Or Phone!")
	}
	doctor := doctors[0]

	apt := &models.Appointment{
		ID:              primitive.NewObjectID(),
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		Phone:           input.Phone,
		NIC:             input.NIC,
		DOB:             dob,
		Gender:          input.Gender,
		AppointmentDate: input.AppointmentDate,
		Department:      input.Department,
		Doctor:          models.DoctorName{FirstName: doctor.FirstName, LastName: doctor.LastName},
		HasVisited:      input.HasVisited,
		DoctorID:        doctor.ID,
		PatientID:       patient.ID,
		Address:         input.Address,
		Status:          models.AppointmentPending,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.appointments.Create(ctx, apt); err != nil {
		s.log.WithError(err).Warn("Book: failed to create appointment")
		return nil, fmt.Errorf("book create: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"appointmentId": apt.ID.Hex(),
		"patientId":     patient.ID.Hex(),
		"doctorId":      doctor.ID.Hex(),
	}).Info("Book: appointment created")
	return apt, nil
}

func (s *AppointmentService) List(ctx context.Context) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	appointments, err := s.appointments.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus moves an appointment to a new status and tells the patient.
func (s *AppointmentService) UpdateStatus(ctx context.Context, appointmentID string, input StatusInput) (*models.Appointment, error) {
	input.Status = strings.TrimSpace(input.Status)
	if err := s.validator.Struct(input, "Please Provide Appointment Status!"); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return nil, apperror.NotFound(msgAppointmentNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	apt, err := s.appointments.UpdateStatus(ctx, id, input.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgAppointmentNotFound)
		}
		return nil, fmt.Errorf("update status: %w", err)
	}

	s.log.WithFields(logrus.Fields{"appointmentId": apt.ID.Hex(), "status": apt.Status}).Info("UpdateStatus: appointment updated")
	s.notifier.AppointmentStatusChanged(apt)
	return apt, nil
}
