package domain

import "time"

type User struct {
	ID        uint
	Username  string
	Password  string
	Email     string
	FullName  string
	IsActive  bool
	UserType  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	UserTypeCustomer = "CUSTOMER"
	UserTypeAdmin    = "ADMIN"
)
