package dto

import "phonestore/internal/domain"

// UserDto never carries the password hash.
type UserDto struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	IsActive bool   `json:"isActive"`
	UserType string `json:"userType"`
}

type CreateUpdateUserDto struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	UserType string `json:"userType"`
}

type LoginRequestDto struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequestDto struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type LoginResponseDto struct {
	AccessToken string  `json:"accessToken"`
	User        UserDto `json:"user"`
}

func UserToDto(u domain.User) UserDto {
	return UserDto{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		IsActive: u.IsActive,
		UserType: u.UserType,
	}
}
