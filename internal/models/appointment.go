package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AppointmentPending  = "pending"
	AppointmentAccepted = "Accepted"
	AppointmentRejected = "Rejected"
)

type DoctorName struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
}

type Appointment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName       string             `bson:"firstName" json:"firstName"`
	LastName        string             `bson:"lastName" json:"lastName"`
	Email           string             `bson:"email" json:"email"`
	Phone           string             `bson:"phone" json:"phone"`
	NIC             string             `bson:"nic" json:"nic"`
	DOB             time.Time          `bson:"dob" json:"dob"`
	Gender          string             `bson:"gender" json:"gender"`
	AppointmentDate string             `bson:"appointment_date" json:"appointment_date"`
	Department      string             `bson:"department" json:"department"`
	Doctor          DoctorName         `bson:"doctor" json:"doctor"`
	HasVisited      bool               `bson:"hasVisited" json:"hasVisited"`
	DoctorID        primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	PatientID       primitive.ObjectID `bson:"patientId" json:"patientId"`
	Address         string             `bson:"address" json:"address"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
