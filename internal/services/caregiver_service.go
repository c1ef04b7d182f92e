package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/hospital-api/internal/apperror"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/repository"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

const (
	msgProvideAssignmentIDs = "Please Provide Patient and Caregiver IDs!"
	msgPairNotFound         = "Patient or Caregiver Not Found!"
	msgCaregiverNotFound    = "Caregiver Not Found!"
)

// Assignment is the state of both sides of a caregiver link after a change.
type Assignment struct {
	Patient   *models.User
	Caregiver *models.User
}

// CaregiverService keeps patient.caregivers and caregiver.patients /
// caregiver.ongoingAssignments in step.
type CaregiverService struct {
	users     UserRepository
	tx        Transactor
	validator *utils.Validator
	log       *logrus.Logger
}

func NewCaregiverService(users UserRepository, tx Transactor, validator *utils.Validator, log *logrus.Logger) *CaregiverService {
	return &CaregiverService{users: users, tx: tx, validator: validator, log: log}
}

// Assign links a caregiver to a patient. Repeating the same pair appends
// the ids again.
func (s *CaregiverService) Assign(ctx context.Context, input AssignmentInput) (*Assignment, error) {
	return s.mutate(ctx, input, "Assign", s.users.LinkCaregiver)
}

// Remove unlinks every occurrence of the pair.
func (s *CaregiverService) Remove(ctx context.Context, input AssignmentInput) (*Assignment, error) {
	return s.mutate(ctx, input, "Remove", s.users.UnlinkCaregiver)
}

type linkFunc func(ctx context.Context, patientID, caregiverID primitive.ObjectID) (*models.User, *models.User, error)

func (s *CaregiverService) mutate(ctx context.Context, input AssignmentInput, op string, link linkFunc) (*Assignment, error) {
	if err := s.validator.Struct(input, msgProvideAssignmentIDs); err != nil {
		return nil, err
	}
	patientID, err := primitive.ObjectIDFromHex(input.PatientID)
	if err != nil {
		return nil, apperror.NotFound(msgPairNotFound)
	}
	caregiverID, err := primitive.ObjectIDFromHex(input.CaregiverID)
	if err != nil {
		return nil, apperror.NotFound(msgPairNotFound)
	}
	if patientID == caregiverID {
		return nil, apperror.Validation("Patient and Caregiver must be different users!")
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var result *Assignment
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// both must exist before either document is written
		if _, err := s.find(ctx, patientID, msgPairNotFound); err != nil {
			return err
		}
		if _, err := s.find(ctx, caregiverID, msgPairNotFound); err != nil {
			return err
		}

		patient, caregiver, err := link(ctx, patientID, caregiverID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.NotFound(msgPairNotFound)
			}
			return fmt.Errorf("update caregiver link: %w", err)
		}
		result = &Assignment{Patient: patient, Caregiver: caregiver}
		return nil
	})
	if err != nil {
		if !apperror.Is(err, apperror.KindNotFound) {
			s.log.WithError(err).WithFields(logrus.Fields{
				"patientId":   input.PatientID,
				"caregiverId": input.CaregiverID,
			}).Warnf("%s: caregiver link not persisted", op)
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"patientId":    patientID.Hex(),
		"caregiverId":  caregiverID.Hex(),
		"availability": result.Caregiver.CaregiverAvailability,
	}).Infof("%s: caregiver link updated", op)
	return result, nil
}

// Availability reports whether the caregiver has no ongoing assignment.
func (s *CaregiverService) Availability(ctx context.Context, caregiverID string) (bool, error) {
	caregiver, err := s.lookupCaregiver(ctx, caregiverID)
	if err != nil {
		return false, err
	}
	return caregiver.Available(), nil
}

func (s *CaregiverService) OngoingAssignments(ctx context.Context, caregiverID string) ([]primitive.ObjectID, error) {
	caregiver, err := s.lookupCaregiver(ctx, caregiverID)
	if err != nil {
		return nil, err
	}
	if caregiver.OngoingAssignments == nil {
		return []primitive.ObjectID{}, nil
	}
	return caregiver.OngoingAssignments, nil
}

func (s *CaregiverService) lookupCaregiver(ctx context.Context, caregiverID string) (*models.User, error) {
	if caregiverID == "" {
		return nil, apperror.Validation("Please Provide Caregiver ID!")
	}
	id, err := primitive.ObjectIDFromHex(caregiverID)
	if err != nil {
		return nil, apperror.NotFound(msgCaregiverNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.find(ctx, id, msgCaregiverNotFound)
}

func (s *CaregiverService) find(ctx context.Context, id primitive.ObjectID, notFound string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(notFound)
		}
		return nil, fmt.Errorf("find user %s: %w", id.Hex(), err)
	}
	return user, nil
}
