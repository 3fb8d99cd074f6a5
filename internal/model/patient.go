package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Patient struct {
	Base             `bson:",inline"`
	UserID           primitive.ObjectID `bson:"userId" json:"user_id"`
	FirstName        string             `bson:"firstName" json:"first_name" validate:"required,max=50"`
	LastName         string             `bson:"lastName" json:"last_name" validate:"required,max=50"`
	Email            string             `bson:"email" json:"email" validate:"required,email"`
	Phone            string             `bson:"phone" json:"phone" validate:"required"`
	DateOfBirth      time.Time          `bson:"dateOfBirth" json:"date_of_birth" validate:"required"`
	Gender           string             `bson:"gender" json:"gender" validate:"required"`
	Address          Address            `bson:"address" json:"address" validate:"required"`
	MedicalHistory   []MedicalHistory   `bson:"medicalHistory" json:"medical_history" validate:"dive"`
	Allergies        []string           `bson:"allergies" json:"allergies"`
	EmergencyContact string             `bson:"emergencyContact" json:"emergency_contact" validate:"required"`
}

type Address struct {
	Street     string `bson:"street" json:"street" validate:"required"`
	City       string `bson:"city" json:"city" validate:"required"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postalCode" json:"postal_code" validate:"required"`
	Country    string `bson:"country" json:"country" validate:"required"`
}

type MedicalHistory struct {
	Condition     string    `bson:"condition" json:"condition" validate:"required"`
	Diagnosis     string    `bson:"diagnosis" json:"diagnosis"`
	DiagnosisDate time.Time `bson:"diagnosisDate" json:"diagnosis_date"`
	Medications   []string  `bson:"medications" json:"medications"`
}

type CreatePatientRequest struct {
	FirstName        string           `json:"first_name" binding:"required"`
	LastName         string           `json:"last_name" binding:"required"`
	Email            string           `json:"email" binding:"required,email"`
	Phone            string           `json:"phone" binding:"required"`
	DateOfBirth      time.Time        `json:"date_of_birth" binding:"required"`
	Gender           string           `json:"gender" binding:"required"`
	Address          Address          `json:"address" binding:"required"`
	MedicalHistory   []MedicalHistory `json:"medical_history"`
	Allergies        []string         `json:"allergies"`
	EmergencyContact string           `json:"emergency_contact" binding:"required"`
}

// UpdatePatientRequest merges onto the stored patient: nil fields keep their
// prior values.
type UpdatePatientRequest struct {
	FirstName        *string          `json:"first_name,omitempty"`
	LastName         *string          `json:"last_name,omitempty"`
	Email            *string          `json:"email,omitempty"`
	Phone            *string          `json:"phone,omitempty"`
	DateOfBirth      *time.Time       `json:"date_of_birth,omitempty"`
	Gender           *string          `json:"gender,omitempty"`
	Address          *Address         `json:"address,omitempty"`
	MedicalHistory   []MedicalHistory `json:"medical_history,omitempty"`
	Allergies        []string         `json:"allergies,omitempty"`
	EmergencyContact *string          `json:"emergency_contact,omitempty"`
}

func (r *UpdatePatientRequest) Apply(p *Patient) {
	if r.FirstName != nil {
		p.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		p.LastName = *r.LastName
	}
	if r.Email != nil {
		p.Email = *r.Email
	}
	if r.Phone != nil {
		p.Phone = *r.Phone
	}
	if r.DateOfBirth != nil {
		p.DateOfBirth = *r.DateOfBirth
	}
	if r.Gender != nil {
		p.Gender = *r.Gender
	}
	if r.Address != nil {
		p.Address = *r.Address
	}
	if r.MedicalHistory != nil {
		p.MedicalHistory = r.MedicalHistory
	}
	if r.Allergies != nil {
		p.Allergies = r.Allergies
	}
	if r.EmergencyContact != nil {
		p.EmergencyContact = *r.EmergencyContact
	}
}
