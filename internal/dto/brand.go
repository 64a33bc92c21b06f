package dto

import "phonestore/internal/domain"

type BrandDto struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CreateUpdateBrandDto struct {
	Name string `json:"name"`
}

func BrandToDto(b domain.Brand) BrandDto {
	return BrandDto{
		ID:   b.ID,
		Name: b.Name,
	}
}
