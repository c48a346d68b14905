package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"properties-api/domain"
	"properties-api/dto"
	"properties-api/repositories"
	"properties-api/utils"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)

// UserService maneja los propietarios a los que apuntan las propiedades
type UserService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, id uint) (*domain.User, error)
}

type userService struct {
	repo  repositories.UserRepository
	clock utils.Clock
}

func NewUserService(repo repositories.UserRepository, clock utils.Clock) UserService {
	return &userService{repo: repo, clock: clock}
}

// CreateUser rechaza usernames y emails repetidos y guarda el hash bcrypt
// en lugar de la contraseña
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	if err := validateUserRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	userType := domain.UserTypeNormal
	if req.Admin {
		userType = domain.UserTypeAdmin
	}

	now := s.clock.Now()
	user := &domain.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserType:  userType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("CreateUser: user ID=%d (%s) created", user.ID, user.Username)
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// userValidate lee las mismas reglas `binding` que usa gin, porque el CLI
// arma el request sin pasar por un handler.
var userValidate = newUserValidator()

func newUserValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateUserRequest(req dto.CreateUserRequest) error {
	err := userValidate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	var message string
	switch fe.Tag() {
	case "required":
		message = "is required"
	case "email":
		message = "must be a valid email address"
	case "min":
		message = fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		message = fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		message = fmt.Sprintf("fails the %s rule", fe.Tag())
	}
	return &domain.ValidationError{Field: fe.Field(), Message: message}
}
