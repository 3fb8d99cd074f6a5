package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type Doctor struct {
	Base           `bson:",inline"`
	UserID         primitive.ObjectID `bson:"userId" json:"user_id"`
	FirstName      string             `bson:"firstName" json:"first_name" validate:"required,max=50"`
	LastName       string             `bson:"lastName" json:"last_name" validate:"required,max=50"`
	Email          string             `bson:"email" json:"email" validate:"required,email"`
	Phone          string             `bson:"phone" json:"phone" validate:"required,e164"`
	Specialization string             `bson:"specialization" json:"specialization" validate:"required,max=100"`
	LicenseNumber  string             `bson:"licenseNumber" json:"license_number" validate:"required,max=50"`
	ImageURL       string             `bson:"imageUrl,omitempty" json:"image_url,omitempty"`
	IsAvailable    bool               `bson:"isAvailable" json:"is_available"`
	WorkingHours   []WorkingHours     `bson:"workingHours" json:"working_hours" validate:"required,min=1,dive"`
}

// WorkingHours is one weekly availability window. Times are "HH:MM" in the
// clinic's local time.
type WorkingHours struct {
	DayOfWeek int    `bson:"dayOfWeek" json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `bson:"startTime" json:"start_time" validate:"required"`
	EndTime   string `bson:"endTime" json:"end_time" validate:"required"`
}

type CreateDoctorRequest struct {
	FirstName      string         `json:"first_name" binding:"required"`
	LastName       string         `json:"last_name" binding:"required"`
	Email          string         `json:"email" binding:"required,email"`
	Phone          string         `json:"phone" binding:"required"`
	Specialization string         `json:"specialization" binding:"required"`
	LicenseNumber  string         `json:"license_number" binding:"required"`
	ImageURL       string         `json:"image_url"`
	IsAvailable    *bool          `json:"is_available"`
	WorkingHours   []WorkingHours `json:"working_hours" binding:"required"`
}

// UpdateDoctorRequest merges onto the stored doctor: nil fields keep their
// prior values.
type UpdateDoctorRequest struct {
	FirstName      *string        `json:"first_name,omitempty"`
	LastName       *string        `json:"last_name,omitempty"`
	Email          *string        `json:"email,omitempty"`
	Phone          *string        `json:"phone,omitempty"`
	Specialization *string        `json:"specialization,omitempty"`
	LicenseNumber  *string        `json:"license_number,omitempty"`
	ImageURL       *string        `json:"image_url,omitempty"`
	IsAvailable    *bool          `json:"is_available,omitempty"`
	WorkingHours   []WorkingHours `json:"working_hours,omitempty"`
}

func (r *UpdateDoctorRequest) Apply(d *Doctor) {
	if r.FirstName != nil {
		d.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		d.LastName = *r.LastName
	}
	if r.Email != nil {
		d.Email = *r.Email
	}
	if r.Phone != nil {
		d.Phone = *r.Phone
	}
	if r.Specialization != nil {
		d.Specialization = *r.Specialization
	}
	if r.LicenseNumber != nil {
		d.LicenseNumber = *r.LicenseNumber
	}
	if r.ImageURL != nil {
		d.ImageURL = *r.ImageURL
	}
	if r.IsAvailable != nil {
		d.IsAvailable = *r.IsAvailable
	}
	if r.WorkingHours != nil {
		d.WorkingHours = r.WorkingHours
	}
}
