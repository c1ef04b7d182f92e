package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin     = "Admin"
	RolePatient   = "Patient"
	RoleDoctor    = "Doctor"
	RoleCaregiver = "Caregiver"
)

// Avatar points at an externally hosted image.
type Avatar struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName        string             `bson:"firstName" json:"firstName"`
	LastName         string             `bson:"lastName" json:"lastName"`
	Email            string             `bson:"email" json:"email"`
	Phone            string             `bson:"phone" json:"phone"`
	NIC              string             `bson:"nic" json:"nic"`
	DOB              time.Time          `bson:"dob" json:"dob"`
	Gender           string             `bson:"gender" json:"gender"`
	Password         string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	Role             string             `bson:"role" json:"role"`
	DoctorDepartment string             `bson:"doctorDepartment,omitempty" json:"doctorDepartment,omitempty"`
	DocAvatar        *Avatar            `bson:"docAvatar,omitempty" json:"docAvatar,omitempty"`

	Caregivers            []primitive.ObjectID `bson:"caregivers" json:"caregivers"`
	Patients              []primitive.ObjectID `bson:"patients" json:"patients"`
	CaregiverAvailability bool                 `bson:"caregiverAvailability" json:"caregiverAvailability"`
	OngoingAssignments    []primitive.ObjectID `bson:"ongoingAssignments" json:"ongoingAssignments"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Profile is the identity part of a user, replaced as a whole by a profile
// update.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	NIC       string
	DOB       time.Time
	Gender    string
}

func (u *User) ApplyProfile(p Profile) {
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.Email = p.Email
	u.Phone = p.Phone
	u.NIC = p.NIC
	u.DOB = p.DOB
	u.Gender = p.Gender
}

// NewUser returns a user with empty reference lists and availability set, the
// way freshly inserted documents are expected to look.
func NewUser(role string) *User {
	now := time.Now().UTC()
	return &User{
		ID:                    primitive.NewObjectID(),
		Role:                  role,
		Caregivers:            []primitive.ObjectID{},
		Patients:              []primitive.ObjectID{},
		OngoingAssignments:    []primitive.ObjectID{},
		CaregiverAvailability: true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// Available reports whether the caregiver currently has no assignment.
func (u *User) Available() bool {
	return len(u.OngoingAssignments) == 0
}

// Clone returns a deep copy, so callers can mutate reference lists without
// touching the original.
func (u *User) Clone() *User {
	c := *u
	c.Caregivers = cloneIDs(u.Caregivers)
	c.Patients = cloneIDs(u.Patients)
	c.OngoingAssignments = cloneIDs(u.OngoingAssignments)
	if u.DocAvatar != nil {
		avatar := *u.DocAvatar
		c.DocAvatar = &avatar
	}
	return &c
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

// RemoveID drops every occurrence of id from ids.
func RemoveID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
