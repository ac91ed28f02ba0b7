package catalog

import "time"

// Gender values accepted for apparel products.
const (
	GenderMen    = "hombre"
	GenderWomen  = "mujer"
	GenderUnisex = "unisex"
)

// Product is an item in the storefront catalog.
type Product struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name" validate:"required"`
	Description  string    `json:"description" bson:"description" validate:"required"`
	Price        float64   `json:"price" bson:"price" validate:"gte=0"`
	Stock        int       `json:"stock" bson:"stock" validate:"gte=0"`
	Category     string    `json:"category" bson:"category" validate:"required"`
	SKU          string    `json:"sku" bson:"sku" validate:"required"`
	Supplier     string    `json:"supplier" bson:"supplier" validate:"required"`
	MinimumOrder int       `json:"minimumOrder" bson:"minimumOrder" validate:"gte=1"`
	IsActive     bool      `json:"isActive" bson:"isActive"`
	Brand        string    `json:"brand,omitempty" bson:"brand,omitempty"`
	Sizes        []string  `json:"size" bson:"size"`
	Colors       []string  `json:"color" bson:"color"`
	Material     string    `json:"material,omitempty" bson:"material,omitempty"`
	Gender       string    `json:"gender" bson:"gender" validate:"oneof=hombre mujer unisex"`
	Images       []string  `json:"images" bson:"images"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Filter narrows List. Category and Query are case-insensitive substring
// matches on category and name.
type Filter struct {
	Category string
	Active   *bool
	Query    string
}

// ProductInput is the body of product create and update requests. Nil
// fields are left unchanged on update.
type ProductInput struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	Price        *float64  `json:"price"`
	Stock        *int      `json:"stock"`
	Category     *string   `json:"category"`
	SKU          *string   `json:"sku"`
	Supplier     *string   `json:"supplier"`
	MinimumOrder *int      `json:"minimumOrder"`
	IsActive     *bool     `json:"isActive"`
	Brand        *string   `json:"brand"`
	Sizes        *[]string `json:"size"`
	Colors       *[]string `json:"color"`
	Material     *string   `json:"material"`
	Gender       *string   `json:"gender"`
	Images       *[]string `json:"images"`
}

// normalize replaces nil list fields with empty slices so they encode as [].
func (p *Product) normalize() {
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
}
