package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"properties-api/domain"
)

// TimestampLayout es ISO-8601 sin zona horaria. Los timestamps se guardan
// en UTC y las fracciones de segundo solo se imprimen si existen.
const TimestampLayout = "2006-01-02T15:04:05.999999"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// CreatePropertyRequest representa el request para crear una propiedad.
// Price acepta un número JSON o un string numérico.
type CreatePropertyRequest struct {
	Title        string           `json:"title" binding:"required"`
	Description  *string          `json:"description"`
	PropertyType string           `json:"property_type" binding:"required"`
	Price        *decimal.Decimal `json:"price" binding:"required"`
	Location     string           `json:"location" binding:"required"`
	Area         *float64         `json:"area"`
	Bedrooms     *int             `json:"bedrooms"`
	Bathrooms    *int             `json:"bathrooms"`
	Status       string           `json:"status"`
	OwnerID      uint             `json:"owner_id" binding:"required"`
}

// UpdatePropertyRequest representa el request para actualizar una propiedad
// Todos los campos son opcionales; no sirve para vaciar columnas opcionales
type UpdatePropertyRequest struct {
	Title        *string          `json:"title,omitempty"`
	Description  *string          `json:"description,omitempty"`
	PropertyType *string          `json:"property_type,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Location     *string          `json:"location,omitempty"`
	Area         *float64         `json:"area,omitempty"`
	Bedrooms     *int             `json:"bedrooms,omitempty"`
	Bathrooms    *int             `json:"bathrooms,omitempty"`
	Status       *string          `json:"status,omitempty"`
	OwnerID      *uint            `json:"owner_id,omitempty"`
}

// ListPropertiesRequest representa la query de GET /properties
type ListPropertiesRequest struct {
	Status       string `form:"status"`
	PropertyType string `form:"property_type"`
	OwnerID      uint   `form:"owner_id"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

// PropertyResponse representa la respuesta con datos de una propiedad.
// Price sale como número JSON armado desde el decimal con dos decimales,
// sin pasar nunca por un float.
type PropertyResponse struct {
	ID           uint        `json:"id"`
	Title        string      `json:"title"`
	Description  *string     `json:"description"`
	PropertyType string      `json:"property_type"`
	Price        json.Number `json:"price"`
	Location     string      `json:"location"`
	Area         *float64    `json:"area"`
	Bedrooms     *int        `json:"bedrooms"`
	Bathrooms    *int        `json:"bathrooms"`
	Status       string      `json:"status"`
	OwnerID      uint        `json:"owner_id"`
	CreatedAt    string      `json:"created_at"`
}

func NewPropertyResponse(p *domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		PropertyType: string(p.PropertyType),
		Price:        json.Number(p.Price.StringFixed(domain.PriceScale)),
		Location:     p.Location,
		Area:         p.Area,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Status:       string(p.Status),
		OwnerID:      p.OwnerID,
		CreatedAt:    FormatTimestamp(p.CreatedAt),
	}
}

// PropertyListResponse representa una página de GET /properties
type PropertyListResponse struct {
	Results      []PropertyResponse `json:"results"`
	TotalResults int64              `json:"total_results"`
	Page         int                `json:"page"`
	PageSize     int                `json:"page_size"`
	TotalPages   int64              `json:"total_pages"`
}

func NewPropertyListResponse(properties []domain.Property, total int64, page, pageSize int) PropertyListResponse {
	results := make([]PropertyResponse, 0, len(properties))
	for i := range properties {
		results = append(results, NewPropertyResponse(&properties[i]))
	}

	var totalPages int64
	if pageSize > 0 {
		totalPages = (total + int64(pageSize) - 1) / int64(pageSize)
	}

	return PropertyListResponse{
		Results:      results,
		TotalResults: total,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
	}
}
