package models

import "time"

// Item is one catalog entry. The cart and order core reads price, title and
// quantity; everything else describes the beverage for the storefront.
type Item struct {
	ID                string    `json:"item_id" bson:"item_id"`
	SKU               string    `json:"sku" bson:"sku"`
	Title             string    `json:"title" bson:"title"`
	ImageURL          string    `json:"image_url" bson:"image_url"`
	Description       string    `json:"description" bson:"description"`
	TypeID            string    `json:"type_id" bson:"type_id"`
	TypeName          string    `json:"type_name" bson:"type_name"`
	Price             Money     `json:"price" bson:"price"`
	Volume            Volume    `json:"volume" bson:"volume"`
	AlcoholVolume     Volume    `json:"alcohol_volume" bson:"alcohol_volume"`
	Quantity          int       `json:"quantity" bson:"quantity"`
	OriginCountryCode string    `json:"origin_country_code" bson:"origin_country_code"`
	OriginCountryName string    `json:"origin_country_name" bson:"origin_country_name"`
	BrandID           string    `json:"brand_id" bson:"brand_id"`
	BrandName         string    `json:"brand_name" bson:"brand_name"`
	AddedAt           time.Time `json:"added_at" bson:"added_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

type CreateItemRequest struct {
	Title             string `json:"title" validate:"required,min=2,max=200"`
	ImageURL          string `json:"image_url,omitempty" validate:"omitempty,url"`
	Description       string `json:"description,omitempty" validate:"max=2000"`
	TypeID            string `json:"type_id" validate:"required,uuid4"`
	Price             Money  `json:"price" validate:"required"`
	Volume            Volume `json:"volume"`
	AlcoholVolume     Volume `json:"alcohol_volume"`
	Quantity          int    `json:"quantity" validate:"gte=0"`
	OriginCountryCode string `json:"origin_country_code" validate:"required,iso3166_1_alpha2"`
	BrandID           string `json:"brand_id" validate:"required,uuid4"`
}

type UpdateItemRequest struct {
	Title             *string `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	ImageURL          *string `json:"image_url,omitempty" validate:"omitempty,url"`
	Description       *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	TypeID            *string `json:"type_id,omitempty" validate:"omitempty,uuid4"`
	Price             *Money  `json:"price,omitempty"`
	Volume            *Volume `json:"volume,omitempty"`
	AlcoholVolume     *Volume `json:"alcohol_volume,omitempty"`
	Quantity          *int    `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	OriginCountryCode *string `json:"origin_country_code,omitempty" validate:"omitempty,iso3166_1_alpha2"`
	BrandID           *string `json:"brand_id,omitempty" validate:"omitempty,uuid4"`
}

// ItemFilter narrows and orders a catalog listing. Zero values mean
// "no constraint". SortBy is restricted to a whitelist by the repository.
type ItemFilter struct {
	Search       string
	TypeIDs      []string
	CountryCodes []string
	BrandIDs     []string
	MinPrice     *Decimal
	MaxPrice     *Decimal
	SortBy       string
	SortDesc     bool
}
