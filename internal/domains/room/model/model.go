package model

import (
	"pms/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldRoomTypeID  = "room_type_id"
	FieldMaxGuests   = "max_guests"

	JoinTableRoomType = "room_types"
)

// Room carries its room type through a LEFT JOIN, so the type columns are NULL for rooms without one.
type Room struct {
	ID           string              `db:"id"`
	Name         string              `db:"name"`
	Description  string              `db:"description"`
	RoomTypeID   *string             `db:"room_type_id"`
	RoomTypeName *string             `db:"room_type_name" table:"room_types" column:"name"`
	Price        decimal.NullDecimal `db:"price"          table:"room_types"`
	MaxGuests    *int                `db:"max_guests"     table:"room_types"`
	model.Metadata
}

func (Room) GetJoinQuery() string {
	return "LEFT JOIN room_types ON room_types.id = rooms.room_type_id"
}

// HasRoomType reports whether the joined type was found.
func (r Room) HasRoomType() bool {
	return r.RoomTypeID != nil && r.Price.Valid
}
