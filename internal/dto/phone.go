package dto

import "phonestore/internal/domain"

type PhoneDto struct {
	ID            uint      `json:"id"`
	Price         float64   `json:"price"`
	Quantity      int       `json:"quantity"`
	Description   string    `json:"description"`
	Specification string    `json:"specification"`
	Discount      float64   `json:"discount"`
	Brand         *BrandDto `json:"brand,omitempty"`
}

type CreateUpdatePhoneDto struct {
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Description   string  `json:"description"`
	Specification string  `json:"specification"`
	Discount      float64 `json:"discount"`
	BrandName     string  `json:"brandName"`
}

func PhoneToDto(p domain.Phone) PhoneDto {
	dto := PhoneDto{
		ID:            p.ID,
		Price:         p.Price,
		Quantity:      p.Quantity,
		Description:   p.Description,
		Specification: p.Specification,
		Discount:      p.Discount,
	}
	if p.Brand != nil {
		brand := BrandToDto(*p.Brand)
		dto.Brand = &brand
	}
	return dto
}

func PhonesToDto(phones []domain.Phone) []PhoneDto {
	dtos := make([]PhoneDto, len(phones))
	for i, p := range phones {
		dtos[i] = PhoneToDto(p)
	}
	return dtos
}
