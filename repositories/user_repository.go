package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"properties-api/domain"
)

// UserRepository da acceso de lectura a los propietarios y permite
// que el CLI los cree
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID devuelve NotFoundError si no existe el usuario
func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "user", ID: id}
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

// GetByUsername devuelve (nil, nil) si el username está libre
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// GetByEmail devuelve (nil, nil) si el email está libre
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return userExists(r.db.WithContext(ctx), id)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// userExists corre sobre el handle que recibe, así el repositorio de
// propiedades verifica propietarios dentro de su transacción
func userExists(db *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := db.Model(&domain.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user %d: %w", id, err)
	}
	return count > 0, nil
}
