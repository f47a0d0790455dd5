package model

import (
	"pms/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "room_types"
	EntityName = "room_type"

	FieldID        = "id"
	FieldName      = "name"
	FieldPrice     = "price"
	FieldMaxGuests = "max_guests"
)

type RoomType struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	MaxGuests int             `db:"max_guests"`
	model.Metadata
}
