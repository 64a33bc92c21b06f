package domain

import "time"

type Brand struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
