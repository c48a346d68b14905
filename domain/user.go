package domain

import "time"

// UserType distingue propietarios comunes de administradores
type UserType string

const (
	UserTypeNormal UserType = "normal"
	UserTypeAdmin  UserType = "admin"
)

// User representa al propietario de una Property.
// Las propiedades solo guardan la referencia.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // hash bcrypt, nunca se serializa
	FirstName string    `gorm:"size:100" json:"first_name"`
	LastName  string    `gorm:"size:100" json:"last_name"`
	UserType  UserType  `gorm:"type:varchar(20);default:'normal'" json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
