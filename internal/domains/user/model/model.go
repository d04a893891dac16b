package model

import "rentwheels/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID       = "id"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldFullName = "full_name"
	FieldPhone    = "phone"
	FieldRole     = "role"
	FieldActive   = "active"
)

type User struct {
	ID       string  `db:"id"`
	Email    string  `db:"email"`
	Password string  `db:"password"`
	FullName *string `db:"full_name"`
	Phone    *string `db:"phone"`
	Role     string  `db:"role"`
	Active   bool    `db:"active"`
	model.Metadata
}
