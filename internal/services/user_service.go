package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/hospital-api/internal/apperror"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/repository"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

const (
	msgFillFullForm       = "Please Fill Full Form!"
	msgProvideAllDetails  = "Please Provide All Details!"
	msgInvalidCredentials = "Invalid Email or Password!"
	msgNotAuthenticated   = "User is not authenticated!"
)

// Session is a freshly issued token and the user it belongs to.
type Session struct {
	User   *models.User
	Token  string
	Claims *utils.Claims
}

type UserService struct {
	users      UserRepository
	sessions   SessionStore
	tokens     *utils.TokenManager
	validator  *utils.Validator
	log        *logrus.Logger
	bcryptCost int

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(users UserRepository, sessions SessionStore, tokens *utils.TokenManager, validator *utils.Validator, log *logrus.Logger, bcryptCost int) *UserService {
	return &UserService{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		validator:  validator,
		log:        log,
		bcryptCost: bcryptCost,
	}
}

// RegisterPatient creates a patient account and signs it in.
func (s *UserService) RegisterPatient(ctx context.Context, input RegisterInput) (*Session, error) {
	input.normalize()
	if err := s.validator.Struct(input, msgFillFullForm); err != nil {
		return nil, err
	}
	if input.Role != models.RolePatient {
		return nil, apperror.Validation("Only patients can register themselves!")
	}
	dob, err := parseDOB(input.DOB)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.Conflict("User Already Registered!")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("register lookup: %w", err)
	}

	user := models.NewUser(models.RolePatient)
	user.ApplyProfile(profileFrom(input.ProfileInput, dob))
	if err := s.setPassword(user, input.Password); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.Conflict("User Already Registered!")
		}
		s.log.WithError(err).Warn("RegisterPatient: failed to create user")
		return nil, fmt.Errorf("register create: %w", err)
	}
	s.log.WithFields(logrus.Fields{"userId": user.ID.Hex(), "role": user.Role}).Info("RegisterPatient: user registered")

	return s.issue(user)
}

// Login checks credentials and role. Every mismatch yields the same error.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	input.Email = normalizeEmail(input.Email)
	if err := s.validator.Struct(input, msgProvideAllDetails); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("login lookup: %w", err)
		}
		// keep the unknown-email path as slow as a real comparison
		utils.CheckPasswordHash(input.Password, s.placeholderHash())
		s.log.WithField("reason", "unknown email").Info("Login: rejected")
		return nil, apperror.Credentials(msgInvalidCredentials)
	}
	if !utils.CheckPasswordHash(input.Password, user.Password) {
		s.log.WithFields(logrus.Fields{"userId": user.ID.Hex(), "reason": "password"}).Info("Login: rejected")
		return nil, apperror.Credentials(msgInvalidCredentials)
	}
	if input.Role != user.Role {
		s.log.WithFields(logrus.Fields{"userId": user.ID.Hex(), "reason": "role"}).Info("Login: rejected")
		return nil, apperror.Credentials(msgInvalidCredentials)
	}

	s.log.WithFields(logrus.Fields{"userId": user.ID.Hex(), "role": user.Role}).Info("Login: succeeded")
	return s.issue(user)
}

func (s *UserService) AddAdmin(ctx context.Context, input StaffInput) (*models.User, error) {
	return s.addStaff(ctx, input, models.RoleAdmin)
}

func (s *UserService) AddDoctor(ctx context.Context, input StaffInput) (*models.User, error) {
	return s.addStaff(ctx, input, models.RoleDoctor)
}

func (s *UserService) addStaff(ctx context.Context, input StaffInput, role string) (*models.User, error) {
	input.normalize()
	if err := s.validator.Struct(input, msgFillFullForm); err != nil {
		return nil, err
	}
	dob, err := parseDOB(input.DOB)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if existing, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.Conflict(fmt.Sprintf("%s With This Mail Already Exists!", existing.Role))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("add %s lookup: %w", role, err)
	}

	user := models.NewUser(role)
	user.ApplyProfile(profileFrom(input.ProfileInput, dob))
	if role == models.RoleDoctor {
		user.DoctorDepartment = input.DoctorDepartment
		user.DocAvatar = input.DocAvatar
	}
	if err := s.setPassword(user, input.Password); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.Conflict(fmt.Sprintf("%s With This Mail Already Exists!", role))
		}
		s.log.WithError(err).WithField("role", role).Warn("addStaff: failed to create user")
		return nil, fmt.Errorf("add %s create: %w", role, err)
	}
	s.log.WithFields(logrus.Fields{"userId": user.ID.Hex(), "role": role}).Info("addStaff: user created")
	return user, nil
}

func (s *UserService) ListDoctors(ctx context.Context) ([]models.User, error) {
	return s.listByRole(ctx, models.RoleDoctor)
}

func (s *UserService) ListPatients(ctx context.Context) ([]models.User, error) {
	return s.listByRole(ctx, models.RolePatient)
}

// ListCaregivers filters on the Doctor role, matching the deployed clients.
func (s *UserService) ListCaregivers(ctx context.Context) ([]models.User, error) {
	return s.listByRole(ctx, models.RoleDoctor)
}

func (s *UserService) listByRole(ctx context.Context, role string) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	users, err := s.users.Find(ctx, repository.UserFilter{Role: role})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", role, err)
	}
	return users, nil
}

// Authenticate resolves a session token issued for role.
func (s *UserService) Authenticate(ctx context.Context, token, role string) (*models.User, *utils.Claims, error) {
	if token == "" {
		return nil, nil, apperror.Unauthorized(msgNotAuthenticated)
	}
	claims, err := s.tokens.ValidateJWT(token)
	if err != nil {
		s.log.WithError(err).Debug("Authenticate: token rejected")
		return nil, nil, apperror.Unauthorized(msgNotAuthenticated)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("session lookup: %w", err)
	}
	if revoked {
		return nil, nil, apperror.Unauthorized(msgNotAuthenticated)
	}
	if claims.Role != role {
		return nil, nil, apperror.Unauthorized(fmt.Sprintf("%s not authorized for this resource!", claims.Role))
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, nil, apperror.Unauthorized(msgNotAuthenticated)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperror.Unauthorized(msgNotAuthenticated)
		}
		return nil, nil, fmt.Errorf("session user lookup: %w", err)
	}
	if user.Role != role {
		return nil, nil, apperror.Unauthorized(fmt.Sprintf("%s not authorized for this resource!", user.Role))
	}
	return user, claims, nil
}

// Logout revokes the token id for the rest of its lifetime. A revocation
// failure is logged; the caller still clears the cookie.
func (s *UserService) Logout(ctx context.Context, claims *utils.Claims) {
	if claims == nil || claims.ExpiresAt == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		s.log.WithError(err).WithField("userId", claims.UserID).Warn("Logout: failed to revoke session")
		return
	}
	s.log.WithFields(logrus.Fields{"userId": claims.UserID, "role": claims.Role}).Info("Logout: session revoked")
}

// UpdateProfile overwrites the identity fields of userID.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input ProfileInput) (*models.User, error) {
	input.normalize()
	if err := s.validator.Struct(input, msgFillFullForm); err != nil {
		return nil, err
	}
	dob, err := parseDOB(input.DOB)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.users.UpdateProfile(ctx, userID, profileFrom(input, dob))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperror.Conflict("Email Already In Use!")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperror.NotFound("User Not Found!")
		}
		s.log.WithError(err).WithField("userId", userID.Hex()).Warn("UpdateProfile: failed to update user")
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.log.WithField("userId", userID.Hex()).Info("UpdateProfile: profile updated")
	return user, nil
}

func (s *UserService) issue(user *models.User) (*Session, error) {
	token, claims, err := s.tokens.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		s.log.WithError(err).Error("issue: could not generate token")
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &Session{User: user, Token: token, Claims: claims}, nil
}

func (s *UserService) setPassword(user *models.User, password string) error {
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash
	return nil
}

func (s *UserService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		hash, err := utils.HashPassword("placeholder-password", s.bcryptCost)
		if err != nil {
			s.log.WithError(err).Error("placeholderHash: could not hash placeholder password")
			hash, _ = utils.HashPassword("placeholder-password", bcrypt.DefaultCost)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func profileFrom(input ProfileInput, dob time.Time) models.Profile {
	return models.Profile{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		NIC:       input.NIC,
		DOB:       dob,
		Gender:    input.Gender,
	}
}

func parseDOB(value string) (time.Time, error) {
	dob, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, apperror.ValidationFields("DOB must be a date (YYYY-MM-DD)!", map[string]string{"dob": err.Error()})
	}
	return dob, nil
}
