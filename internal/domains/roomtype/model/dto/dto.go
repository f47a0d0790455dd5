package dto

import (
	"pms/internal/domains/roomtype/model"
	"pms/shared"
	gDto "pms/shared/dto"
	gModel "pms/shared/model"
	"pms/shared/timezone"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRoomTypeRequest struct {
	Name      string          `json:"name"       validate:"required,max=100"`
	Price     decimal.Decimal `json:"price"      validate:"gte=0"            swaggertype:"string" example:"50.00"`
	MaxGuests int             `json:"max_guests" validate:"required,min=1"`
}

func (c *CreateRoomTypeRequest) ToModel(user string) model.RoomType {
	now := timezone.Now()

	return model.RoomType{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(c.Name),
		Price:     c.Price.Round(2),
		MaxGuests: c.MaxGuests,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomTypeRequest struct {
	Name      string           `db:"name"       json:"name"       validate:"omitempty,max=100"`
	Price     *decimal.Decimal `db:"price"      json:"price"      validate:"omitempty,gte=0"   swaggertype:"string"`
	MaxGuests *int             `db:"max_guests" json:"max_guests" validate:"omitempty,min=1"`
}

type RoomTypeResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"      swaggertype:"string" example:"50.00"`
	MaxGuests int             `json:"max_guests"`
	gDto.Metadata
}

func (r *RoomTypeResponse) FromModel(model model.RoomType) {
	r.ID = model.ID
	r.Name = model.Name
	r.Price = model.Price
	r.MaxGuests = model.MaxGuests
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomTypesResponse struct {
	RoomTypes []RoomTypeResponse `json:"room_types"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetRoomTypesResponse) FromModels(models []model.RoomType, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.RoomTypes = make([]RoomTypeResponse, len(models))
	for i, mod := range models {
		r.RoomTypes[i].FromModel(mod)
	}
}
