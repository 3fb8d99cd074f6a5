package model

type ProductCategory string

const (
	ProductSkincare          ProductCategory = "skincare"
	ProductHaircare          ProductCategory = "haircare"
	ProductBodycare          ProductCategory = "bodycare"
	ProductSunProtection     ProductCategory = "sun_protection"
	ProductAcneTreatment     ProductCategory = "acne_treatment"
	ProductBrightening       ProductCategory = "brightening"
	ProductLipCare           ProductCategory = "lip_care"
	ProductEyeCare           ProductCategory = "eye_care"
	ProductPostTreatmentCare ProductCategory = "post_treatment_care"
)

type Product struct {
	Base          `bson:",inline"`
	Name          string          `bson:"name" json:"name" validate:"required,max=100"`
	Description   string          `bson:"description" json:"description" validate:"required,max=1000"`
	Category      ProductCategory `bson:"category" json:"category" validate:"required,oneof=skincare haircare bodycare sun_protection acne_treatment brightening lip_care eye_care post_treatment_care"`
	Price         float64         `bson:"price" json:"price" validate:"gt=0"`
	StockQuantity int             `bson:"stockQuantity" json:"stock_quantity" validate:"min=0"`
	Manufacturer  string          `bson:"manufacturer" json:"manufacturer" validate:"required"`
	Ingredients   []string        `bson:"ingredients" json:"ingredients"`
	Usage         string          `bson:"usage" json:"usage"`
	SideEffects   []string        `bson:"sideEffects" json:"side_effects"`
	ImageURL      string          `bson:"imageUrl,omitempty" json:"image_url,omitempty"`
}

type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Category      ProductCategory `json:"category" binding:"required"`
	Price         float64         `json:"price" binding:"required,gt=0"`
	StockQuantity int             `json:"stock_quantity" binding:"min=0"`
	Manufacturer  string          `json:"manufacturer" binding:"required"`
	Ingredients   []string        `json:"ingredients"`
	Usage         string          `json:"usage"`
	SideEffects   []string        `json:"side_effects"`
	ImageURL      string          `json:"image_url"`
}

// UpdateProductRequest merges onto the stored product: nil fields keep their
// prior values.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Category      *ProductCategory `json:"category,omitempty"`
	Price         *float64         `json:"price,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty"`
	Manufacturer  *string          `json:"manufacturer,omitempty"`
	Ingredients   []string         `json:"ingredients,omitempty"`
	Usage         *string          `json:"usage,omitempty"`
	SideEffects   []string         `json:"side_effects,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
}

func (r *UpdateProductRequest) Apply(p *Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.StockQuantity != nil {
		p.StockQuantity = *r.StockQuantity
	}
	if r.Manufacturer != nil {
		p.Manufacturer = *r.Manufacturer
	}
	if r.Ingredients != nil {
		p.Ingredients = r.Ingredients
	}
	if r.Usage != nil {
		p.Usage = *r.Usage
	}
	if r.SideEffects != nil {
		p.SideEffects = r.SideEffects
	}
	if r.ImageURL != nil {
		p.ImageURL = *r.ImageURL
	}
}
