package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch se devuelve cuando el hash es válido pero no coincide
var ErrPasswordMismatch = errors.New("password does not match hash")

// HashPassword hashea una contraseña con bcrypt y el costo por defecto
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash verifica si la contraseña coincide con el hash
func CheckPasswordHash(password, hash string) bool {
	return VerifyPassword(password, hash) == nil
}

// VerifyPassword distingue una contraseña incorrecta de un hash que no es bcrypt
func VerifyPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("malformed bcrypt hash: %w", err)
	}
}

// HashCost devuelve el costo con el que se generó un hash bcrypt
func HashCost(hash string) (int, error) {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return 0, fmt.Errorf("malformed bcrypt hash: %w", err)
	}
	return cost, nil
}
