package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"properties-api/domain"
)

// PropertyFilter acota un listado. Los valores cero significan "cualquiera".
type PropertyFilter struct {
	Status       domain.PropertyStatus
	PropertyType domain.PropertyType
	OwnerID      uint
	Page         int
	PageSize     int
}

// PropertyRepository define la interfaz de acceso a la tabla properties
// Cada escritura corre en su propia transacción
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id uint) (*domain.Property, error)
	Update(ctx context.Context, property *domain.Property) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter PropertyFilter) ([]domain.Property, int64, error)
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// Create verifica el propietario e inserta la fila en una transacción.
// El id generado queda cargado en property.
func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwner(tx, property.OwnerID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(property).Error; err != nil {
			return fmt.Errorf("insert property: %w", err)
		}
		return nil
	})
}

func (r *propertyRepository) GetByID(ctx context.Context, id uint) (*domain.Property, error) {
	property, err := findProperty(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return property, nil
}

// Update escribe todas las columnas menos id y created_at.
// El propietario se vuelve a verificar solo si cambió.
func (r *propertyRepository) Update(ctx context.Context, property *domain.Property) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findProperty(tx, property.ID)
		if err != nil {
			return err
		}
		if current.OwnerID != property.OwnerID {
			if err := requireOwner(tx, property.OwnerID); err != nil {
				return err
			}
		}

		err = tx.Model(&domain.Property{ID: property.ID}).
			Select("*").
			Omit("id", "created_at", clause.Associations).
			Updates(property).Error
		if err != nil {
			return fmt.Errorf("update property %d: %w", property.ID, err)
		}
		return nil
	})
}

func (r *propertyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.Property{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete property %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return &domain.NotFoundError{Entity: "property", ID: id}
		}
		return nil
	})
}

// List devuelve una página ordenada por id y el total de filas que
// cumplen el filtro
func (r *propertyRepository) List(ctx context.Context, filter PropertyFilter) ([]domain.Property, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Property{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PropertyType != "" {
		query = query.Where("property_type = ?", filter.PropertyType)
	}
	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	// Count y Find arrancan cada uno de una copia de la query filtrada
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	properties := make([]domain.Property, 0, filter.PageSize)
	err := query.
		Order("id ASC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&properties).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}
	return properties, total, nil
}

func findProperty(db *gorm.DB, id uint) (*domain.Property, error) {
	var property domain.Property
	err := db.First(&property, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "property", ID: id}
		}
		return nil, fmt.Errorf("get property %d: %w", id, err)
	}
	return &property, nil
}

func requireOwner(tx *gorm.DB, ownerID uint) error {
	ok, err := userExists(tx, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ReferenceError{Field: "owner_id", ID: ownerID}
	}
	return nil
}
