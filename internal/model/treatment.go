package model

type TreatmentCategory string

const (
	TreatmentFacial       TreatmentCategory = "facial_treatments"
	TreatmentLaser        TreatmentCategory = "laser_treatments"
	TreatmentInjectables  TreatmentCategory = "injectables"
	TreatmentBodyContour  TreatmentCategory = "body_contouring"
	TreatmentSkinRejuv    TreatmentCategory = "skin_rejuvenation"
	TreatmentHair         TreatmentCategory = "hair_treatments"
	TreatmentAcne         TreatmentCategory = "acne_treatments"
	TreatmentAntiAging    TreatmentCategory = "anti_aging_treatments"
	TreatmentPigmentation TreatmentCategory = "pigmentation_treatments"
	TreatmentPostSurgery  TreatmentCategory = "post_surgery_care"
)

type Treatment struct {
	Base              `bson:",inline"`
	Name              string            `bson:"name" json:"name" validate:"required,max=100"`
	Description       string            `bson:"description" json:"description" validate:"required,max=1000"`
	Category          TreatmentCategory `bson:"category" json:"category" validate:"required,oneof=facial_treatments laser_treatments injectables body_contouring skin_rejuvenation hair_treatments acne_treatments anti_aging_treatments pigmentation_treatments post_surgery_care"`
	DurationMinutes   int               `bson:"durationMinutes" json:"duration_minutes" validate:"gt=0,lte=480"`
	Price             float64           `bson:"price" json:"price" validate:"gt=0"`
	RequiredEquipment []string          `bson:"requiredEquipment" json:"required_equipment"`
	PreRequisites     []string          `bson:"preRequisites" json:"pre_requisites"`
	AfterCare         []string          `bson:"afterCare" json:"after_care"`
	Risks             []string          `bson:"risks" json:"risks"`
	ImageURL          string            `bson:"imageUrl,omitempty" json:"image_url,omitempty"`
}

type CreateTreatmentRequest struct {
	Name              string            `json:"name" binding:"required"`
	Description       string            `json:"description" binding:"required"`
	Category          TreatmentCategory `json:"category" binding:"required"`
	DurationMinutes   int               `json:"duration_minutes" binding:"required,gt=0"`
	Price             float64           `json:"price" binding:"required,gt=0"`
	RequiredEquipment []string          `json:"required_equipment"`
	PreRequisites     []string          `json:"pre_requisites"`
	AfterCare         []string          `json:"after_care"`
	Risks             []string          `json:"risks"`
	ImageURL          string            `json:"image_url"`
}

// UpdateTreatmentRequest merges onto the stored treatment: nil fields keep
// their prior values.
type UpdateTreatmentRequest struct {
	Name              *string            `json:"name,omitempty"`
	Description       *string            `json:"description,omitempty"`
	Category          *TreatmentCategory `json:"category,omitempty"`
	DurationMinutes   *int               `json:"duration_minutes,omitempty"`
	Price             *float64           `json:"price,omitempty"`
	RequiredEquipment []string           `json:"required_equipment,omitempty"`
	PreRequisites     []string           `json:"pre_requisites,omitempty"`
	AfterCare         []string           `json:"after_care,omitempty"`
	Risks             []string           `json:"risks,omitempty"`
	ImageURL          *string            `json:"image_url,omitempty"`
}

func (r *UpdateTreatmentRequest) Apply(t *Treatment) {
	if r.Name != nil {
		t.Name = *r.Name
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.Category != nil {
		t.Category = *r.Category
	}
	if r.DurationMinutes != nil {
		t.DurationMinutes = *r.DurationMinutes
	}
	if r.Price != nil {
		t.Price = *r.Price
	}
	if r.RequiredEquipment != nil {
		t.RequiredEquipment = r.RequiredEquipment
	}
	if r.PreRequisites != nil {
		t.PreRequisites = r.PreRequisites
	}
	if r.AfterCare != nil {
		t.AfterCare = r.AfterCare
	}
	if r.Risks != nil {
		t.Risks = r.Risks
	}
	if r.ImageURL != nil {
		t.ImageURL = *r.ImageURL
	}
}
