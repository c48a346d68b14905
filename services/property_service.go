package services

import (
	"context"
	"log"
	"math"
	"time"

	"properties-api/domain"
	"properties-api/dto"
	"properties-api/publishers"
	"properties-api/repositories"
	"properties-api/utils"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PropertyService es la entrada a la capa de persistencia.
// Devuelve los errores de dominio y no sabe nada de HTTP.
type PropertyService interface {
	CreateProperty(ctx context.Context, req dto.CreatePropertyRequest) (*domain.Property, error)
	GetProperty(ctx context.Context, id uint) (*domain.Property, error)
	UpdateProperty(ctx context.Context, id uint, req dto.UpdatePropertyRequest) (*domain.Property, error)
	DeleteProperty(ctx context.Context, id uint) error
	ListProperties(ctx context.Context, req dto.ListPropertiesRequest) ([]domain.Property, int64, repositories.PropertyFilter, error)
}

type propertyService struct {
	repo      repositories.PropertyRepository
	cache     repositories.CacheRepository
	guard     *cacheGuard
	publisher publishers.EventPublisher
	clock     utils.Clock
}

func NewPropertyService(
	repo repositories.PropertyRepository,
	cache repositories.CacheRepository,
	publisher publishers.EventPublisher,
	clock utils.Clock,
) PropertyService {
	return &propertyService{
		repo:      repo,
		cache:     cache,
		guard:     newCacheGuard(cache),
		publisher: publisher,
		clock:     clock,
	}
}

// CreateProperty valida la propiedad, pone el mismo instante en ambos
// timestamps y la guarda
func (s *propertyService) CreateProperty(ctx context.Context, req dto.CreatePropertyRequest) (*domain.Property, error) {
	if req.Price == nil {
		return nil, &domain.ValidationError{Field: "price", Message: "is required"}
	}

	property := &domain.Property{
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: domain.PropertyType(req.PropertyType),
		Price:        *req.Price,
		Location:     req.Location,
		Area:         req.Area,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Status:       domain.PropertyStatus(req.Status),
		OwnerID:      req.OwnerID,
	}
	property.ApplyDefaults()

	if err := property.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	property.CreatedAt = now
	property.UpdatedAt = now

	if err := s.repo.Create(ctx, property); err != nil {
		return nil, err
	}

	log.Printf("CreateProperty: property ID=%d created for owner ID=%d", property.ID, property.OwnerID)

	s.cache.Set(property)
	s.publish(ctx, publishers.ActionCreate, property.ID, now)

	return property, nil
}

func (s *propertyService) GetProperty(ctx context.Context, id uint) (*domain.Property, error) {
	if property, found := s.cache.Get(id); found {
		return property, nil
	}

	seen := s.guard.version(id)
	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.guard.fill(property, seen)
	return property, nil
}

// UpdateProperty aplica los campos recibidos, vuelve a validar todo y
// actualiza updated_at. created_at no se toca.
func (s *propertyService) UpdateProperty(ctx context.Context, id uint, req dto.UpdatePropertyRequest) (*domain.Property, error) {
	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(property, req)

	if err := property.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	property.UpdatedAt = now

	err = s.repo.Update(ctx, property)
	s.guard.invalidate(id)
	if err != nil {
		return nil, err
	}

	log.Printf("UpdateProperty: property ID=%d updated", id)

	s.publish(ctx, publishers.ActionUpdate, id, now)

	return property, nil
}

func (s *propertyService) DeleteProperty(ctx context.Context, id uint) error {
	err := s.repo.Delete(ctx, id)
	s.guard.invalidate(id)
	if err != nil {
		return err
	}

	log.Printf("DeleteProperty: property ID=%d deleted", id)

	s.publish(ctx, publishers.ActionDelete, id, s.clock.Now())
	return nil
}

// ListProperties valida el filtro, completa la paginación por defecto y
// devuelve la página junto con el filtro aplicado
func (s *propertyService) ListProperties(ctx context.Context, req dto.ListPropertiesRequest) ([]domain.Property, int64, repositories.PropertyFilter, error) {
	filter, err := buildFilter(req)
	if err != nil {
		return nil, 0, filter, err
	}

	properties, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, filter, err
	}
	return properties, total, filter, nil
}

func buildFilter(req dto.ListPropertiesRequest) (repositories.PropertyFilter, error) {
	filter := repositories.PropertyFilter{
		Status:       domain.PropertyStatus(req.Status),
		PropertyType: domain.PropertyType(req.PropertyType),
		OwnerID:      req.OwnerID,
		Page:         req.Page,
		PageSize:     req.PageSize,
	}

	if filter.Status != "" && !filter.Status.Valid() {
		return filter, &domain.ValidationError{Field: "status", Message: "unknown status filter"}
	}
	if filter.PropertyType != "" && !filter.PropertyType.Valid() {
		return filter, &domain.ValidationError{Field: "property_type", Message: "unknown property_type filter"}
	}
	if filter.Page < 0 || filter.PageSize < 0 {
		return filter, &domain.ValidationError{Field: "page", Message: "page and page_size must not be negative"}
	}
	if filter.PageSize > maxPageSize {
		return filter, &domain.ValidationError{Field: "page_size", Message: "must be at most 100"}
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = defaultPageSize
	}
	// El offset (page-1)*page_size tiene que entrar en un int.
	if filter.Page-1 > math.MaxInt/filter.PageSize {
		return filter, &domain.ValidationError{Field: "page", Message: "is out of range"}
	}
	return filter, nil
}

func applyUpdate(p *domain.Property, req dto.UpdatePropertyRequest) {
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.PropertyType != nil {
		p.PropertyType = domain.PropertyType(*req.PropertyType)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.Area != nil {
		p.Area = req.Area
	}
	if req.Bedrooms != nil {
		p.Bedrooms = req.Bedrooms
	}
	if req.Bathrooms != nil {
		p.Bathrooms = req.Bathrooms
	}
	if req.Status != nil {
		p.Status = domain.PropertyStatus(*req.Status)
	}
	if req.OwnerID != nil {
		p.OwnerID = *req.OwnerID
	}
}

// publish es best effort: la escritura ya quedó confirmada
func (s *propertyService) publish(ctx context.Context, action publishers.Action, id uint, at time.Time) {
	msg := publishers.NewPropertyMessage(action, id, at)
	if err := s.publisher.Publish(ctx, msg); err != nil {
		log.Printf("Error publishing %s event for property ID=%d: %v", action, id, err)
	}
}
