package dto

import (
	"pms/internal/domains/room/model"
	"pms/shared"
	gDto "pms/shared/dto"
	gModel "pms/shared/model"
	"pms/shared/timezone"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRoomRequest struct {
	Name        string  `json:"name"         validate:"required,max=100"`
	Description string  `json:"description"  validate:"omitempty,max=500"`
	RoomTypeID  *string `json:"room_type_id" validate:"omitempty,uuid"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	now := timezone.Now()

	return model.Room{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(c.Name),
		Description: c.Description,
		RoomTypeID:  c.RoomTypeID,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name        string  `db:"name"         json:"name"         validate:"omitempty,max=100"`
	Description *string `db:"description"  json:"description"  validate:"omitempty,max=500"`
	RoomTypeID  *string `db:"room_type_id" json:"room_type_id" validate:"omitempty,uuid"`
}

type RoomResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	RoomTypeID   *string          `json:"room_type_id"`
	RoomTypeName *string          `json:"room_type_name"`
	Price        *decimal.Decimal `json:"price"          swaggertype:"string" example:"50.00"`
	MaxGuests    *int             `json:"max_guests"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.RoomTypeID = model.RoomTypeID
	r.RoomTypeName = model.RoomTypeName
	r.MaxGuests = model.MaxGuests
	r.Price = nil

	if model.Price.Valid {
		price := model.Price.Decimal
		r.Price = &price
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

// SearchFilter matches rooms where any whitespace separated word of the name starts with term.
func SearchFilter(term string) gDto.FilterGroup {
	term = strings.TrimSpace(term)
	if term == "" {
		return gDto.FilterGroup{}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Operator: gDto.FilterOperatorWordStart,
				Value:    term,
				Table:    model.TableName,
			},
		},
	}
}
