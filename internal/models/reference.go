package models

import "time"

// Reference data behind the catalog: who makes a drink, what kind it is and
// where it comes from. Names are unique within each collection.

type Brand struct {
	ID        string    `json:"brand_id" bson:"brand_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type BeverageType struct {
	ID        string    `json:"type_id" bson:"type_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type Country struct {
	Code      string    `json:"code" bson:"code"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type CreateBrandRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type UpdateBrandRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type CreateBeverageTypeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type UpdateBeverageTypeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type CreateCountryRequest struct {
	Code string `json:"code" validate:"required,iso3166_1_alpha2"`
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type UpdateCountryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}
