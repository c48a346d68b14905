package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// PropertyType es el conjunto cerrado de tipos de propiedad
type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeLand       PropertyType = "land"
)

// PropertyTypes lista todos los PropertyType aceptados
var PropertyTypes = []PropertyType{
	PropertyTypeHouse,
	PropertyTypeApartment,
	PropertyTypeCommercial,
	PropertyTypeLand,
}

func (t PropertyType) Valid() bool {
	for _, v := range PropertyTypes {
		if t == v {
			return true
		}
	}
	return false
}

// PropertyStatus es el conjunto cerrado de estados.
// Cualquier estado puede pasar a cualquier otro.
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusSold      PropertyStatus = "sold"
	PropertyStatusRented    PropertyStatus = "rented"
	PropertyStatusPending   PropertyStatus = "pending"
)

var PropertyStatuses = []PropertyStatus{
	PropertyStatusAvailable,
	PropertyStatusSold,
	PropertyStatusRented,
	PropertyStatusPending,
}

func (s PropertyStatus) Valid() bool {
	for _, v := range PropertyStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Límites de columnas de la tabla properties
const (
	MaxTitleLength    = 200
	MaxLocationLength = 255
	PricePrecision    = 15
	PriceScale        = 2
)

// maxPrice es el primer valor que ya no entra en decimal(15,2)
var maxPrice = decimal.New(1, PricePrecision-PriceScale)

// Property representa una propiedad inmobiliaria de un User
type Property struct {
	ID           uint            `gorm:"primaryKey"`
	Title        string          `gorm:"size:200;not null"`
	Description  *string         `gorm:"type:text"`
	PropertyType PropertyType    `gorm:"type:varchar(20);not null;index"`
	Price        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Location     string          `gorm:"size:255;not null"`
	Area         *float64
	Bedrooms     *int
	Bathrooms    *int
	Status       PropertyStatus `gorm:"type:varchar(20);not null;default:'available';index"`
	OwnerID      uint           `gorm:"not null;index"`
	Owner        *User          `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt    time.Time      `gorm:"autoCreateTime:false;precision:6;not null"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime:false;precision:6;not null"`
}

func (Property) TableName() string {
	return "properties"
}

// ApplyDefaults completa los campos vacíos que tienen valor por defecto
func (p *Property) ApplyDefaults() {
	if p.Status == "" {
		p.Status = PropertyStatusAvailable
	}
}

// Validate revisa las reglas de cada campo.
// La referencia al propietario la verifica el repositorio, no acá.
func (p *Property) Validate() error {
	if err := validateText("title", p.Title, MaxTitleLength); err != nil {
		return err
	}
	if p.PropertyType == "" {
		return newValidationError("property_type", "is required")
	}
	if !p.PropertyType.Valid() {
		return newValidationError("property_type", "%q is not one of %s", p.PropertyType, joinTypes())
	}
	if err := ValidatePrice(p.Price); err != nil {
		return err
	}
	if err := validateText("location", p.Location, MaxLocationLength); err != nil {
		return err
	}
	if p.Area != nil && *p.Area < 0 {
		return newValidationError("area", "must not be negative")
	}
	if p.Bedrooms != nil && *p.Bedrooms < 0 {
		return newValidationError("bedrooms", "must not be negative")
	}
	if p.Bathrooms != nil && *p.Bathrooms < 0 {
		return newValidationError("bathrooms", "must not be negative")
	}
	if !p.Status.Valid() {
		return newValidationError("status", "%q is not one of %s", p.Status, joinStatuses())
	}
	if p.OwnerID == 0 {
		return newValidationError("owner_id", "is required")
	}
	return nil
}

// ValidatePrice acepta montos no negativos que entran exactos en decimal(15,2)
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return newValidationError("price", "must not be negative")
	}
	if !price.Round(PriceScale).Equal(price) {
		return newValidationError("price", "must have at most %d decimal places", PriceScale)
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return newValidationError("price", "must have at most %d integer digits", PricePrecision-PriceScale)
	}
	return nil
}

func validateText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return newValidationError(field, "is required")
	}
	if utf8.RuneCountInString(value) > max {
		return newValidationError(field, "must be at most %d characters", max)
	}
	return nil
}

func joinTypes() string {
	names := make([]string, len(PropertyTypes))
	for i, t := range PropertyTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func joinStatuses() string {
	names := make([]string, len(PropertyStatuses))
	for i, s := range PropertyStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
