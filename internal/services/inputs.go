package services

import (
	"strings"

	"github.com/harentsoaR/hospital-api/internal/models"
)

// ProfileInput holds the identity fields shared by every person record.
type ProfileInput struct {
	FirstName string `json:"firstName" validate:"required,min=3"`
	LastName  string `json:"lastName" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,len=11,number"`
	NIC       string `json:"nic" validate:"required,len=13,number"`
	DOB       string `json:"dob" validate:"required"`
	Gender    string `json:"gender" validate:"required,oneof=Male Female"`
}

func (p *ProfileInput) normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = normalizeEmail(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.NIC = strings.TrimSpace(p.NIC)
	p.DOB = strings.TrimSpace(p.DOB)
	p.Gender = strings.TrimSpace(p.Gender)
}

type RegisterInput struct {
	ProfileInput
	Password string `json:"password" validate:"required,min=11,max=72"`
	Role     string `json:"role" validate:"required"`
}

// StaffInput is the body of the admin-only add admin / add doctor forms.
type StaffInput struct {
	ProfileInput
	Password         string         `json:"password" validate:"required,min=11,max=72"`
	DoctorDepartment string         `json:"doctorDepartment"`
	DocAvatar        *models.Avatar `json:"docAvatar"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type AssignmentInput struct {
	PatientID   string `json:"patientId" validate:"required"`
	CaregiverID string `json:"caregiverId" validate:"required"`
}

type BookingInput struct {
	ProfileInput
	AppointmentDate string `json:"appointment_date" validate:"required"`
	Department      string `json:"department" validate:"required"`
	DoctorFirstName string `json:"doctor_firstName" validate:"required"`
	DoctorLastName  string `json:"doctor_lastName" validate:"required"`
	HasVisited      bool   `json:"hasVisited"`
	Address         string `json:"address" validate:"required"`
}

type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending Accepted Rejected"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
