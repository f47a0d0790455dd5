package dto

import (
	"pms/internal/domains/booking/availability"
	"pms/internal/domains/booking/model"
	customerDto "pms/internal/domains/customer/model/dto"
	roomModel "pms/internal/domains/room/model"
	"pms/shared"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	gModel "pms/shared/model"
	"pms/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventCreated      = "booking.created"
	EventDatesChanged = "booking.dates_changed"
	EventCancelled    = "booking.cancelled"
)

// StayRequest carries a checkin and checkout as YYYY-MM-DD days.
type StayRequest struct {
	CheckIn  string `json:"checkin"  validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"checkout" validate:"required,datetime=2006-01-02"`
}

// Stay parses both days. Callers validate the request first, so parse errors are not expected.
func (s StayRequest) Stay() (availability.DateRange, error) {
	checkin, err := timezone.ParseDate(s.CheckIn)
	if err != nil {
		return availability.DateRange{}, err //nolint:wrapcheck
	}

	checkout, err := timezone.ParseDate(s.CheckOut)
	if err != nil {
		return availability.DateRange{}, err //nolint:wrapcheck
	}

	return availability.NewDateRange(checkin, checkout), nil
}

type SearchAvailabilityRequest struct {
	StayRequest
	Guests int `json:"guests" validate:"required,min=1"`
}

type AvailableRoomResponse struct {
	RoomID       string          `json:"room_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	RoomTypeName string          `json:"room_type_name"`
	MaxGuests    int             `json:"max_guests"`
	Price        decimal.Decimal `json:"price"          swaggertype:"string" example:"50.00"`
	Nights       int             `json:"nights"`
	Total        decimal.Decimal `json:"total"          swaggertype:"string" example:"100.00"`
}

func (r *AvailableRoomResponse) FromModel(room roomModel.Room, stay availability.DateRange, total decimal.Decimal) {
	r.RoomID = room.ID
	r.Name = room.Name
	r.Description = room.Description
	r.Nights = stay.Nights()
	r.Total = total

	if room.RoomTypeName != nil {
		r.RoomTypeName = *room.RoomTypeName
	}

	if room.MaxGuests != nil {
		r.MaxGuests = *room.MaxGuests
	}

	r.Price = room.Price.Decimal
}

type SearchAvailabilityResponse struct {
	CheckIn  string                  `json:"checkin"`
	CheckOut string                  `json:"checkout"`
	Guests   int                     `json:"guests"`
	Nights   int                     `json:"nights"`
	Rooms    []AvailableRoomResponse `json:"rooms"`
}

// CreateBookingRequest takes either an existing customer_id or the data of a new customer.
type CreateBookingRequest struct {
	StayRequest
	RoomID     string                             `json:"room_id"     validate:"required,uuid"`
	Guests     int                                `json:"guests"      validate:"required,min=1"`
	CustomerID *string                            `json:"customer_id" validate:"required_without=Customer,excluded_with=Customer,omitempty,uuid"`
	Customer   *customerDto.CreateCustomerRequest `json:"customer"    validate:"required_without=CustomerID,omitempty"`
}

func (c *CreateBookingRequest) ToModel(user, customerID, code string, stay availability.DateRange, total decimal.Decimal) model.Booking {
	now := timezone.Now()
	roomID := c.RoomID

	return model.Booking{
		ID:         uuid.NewString(),
		Code:       code,
		State:      model.StateNew,
		CheckIn:    stay.CheckIn,
		CheckOut:   stay.CheckOut,
		RoomID:     &roomID,
		Guests:     c.Guests,
		CustomerID: &customerID,
		Total:      total,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateDatesRequest struct {
	StayRequest
}

type UpdateContactRequest = customerDto.UpdateCustomerRequest

// GenerateCode returns an upper-case alphanumeric booking code of the given length, at most 32.
func GenerateCode(length int) string {
	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", constant.Empty))
	if length <= 0 || length > len(code) {
		return code
	}

	return code[:length]
}

type BookingResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	State         string          `json:"state"`
	StateLabel    string          `json:"state_label"`
	CheckIn       string          `json:"checkin"`
	CheckOut      string          `json:"checkout"`
	Nights        int             `json:"nights"`
	RoomID        *string         `json:"room_id"`
	RoomName      *string         `json:"room_name"`
	Guests        int             `json:"guests"`
	CustomerID    *string         `json:"customer_id"`
	CustomerName  *string         `json:"customer_name"`
	CustomerEmail *string         `json:"customer_email"`
	CustomerPhone *string         `json:"customer_phone"`
	Total         decimal.Decimal `json:"total"          swaggertype:"string" example:"100.00"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	stay := availability.NewDateRange(booking.CheckIn, booking.CheckOut)

	r.ID = booking.ID
	r.Code = booking.Code
	r.State = booking.State
	r.StateLabel = model.StateLabel(booking.State)
	r.CheckIn = stay.CheckIn.Format(constant.DayFormat)
	r.CheckOut = stay.CheckOut.Format(constant.DayFormat)
	r.Nights = stay.Nights()
	r.RoomID = booking.RoomID
	r.RoomName = booking.RoomName
	r.Guests = booking.Guests
	r.CustomerID = booking.CustomerID
	r.CustomerName = booking.CustomerName
	r.CustomerEmail = booking.CustomerEmail
	r.CustomerPhone = booking.CustomerPhone
	r.Total = booking.Total
	r.Metadata.FromModel(booking.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// ListFilter holds the optional filters of the booking list. Search matches the code prefix.
type ListFilter struct {
	State      string `validate:"omitempty,oneof=NEW DEL"`
	RoomID     string `validate:"omitempty,uuid"`
	CustomerID string `validate:"omitempty,uuid"`
	Search     string `validate:"omitempty,max=8"`
}

func (f ListFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{}

	if f.State != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldState, Value: f.State, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.RoomID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldRoomID, Value: f.RoomID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.CustomerID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldCustomerID, Value: f.CustomerID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if search := strings.TrimSpace(f.Search); search != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldCode, Value: search, Operator: gDto.FilterOperatorWordStart, Table: model.TableName})
	}

	return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}
}

// CheckInBetween selects bookings whose checkin falls in [from, to).
func CheckInBetween(from, to time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{ArgName: "checkin_from", Field: model.FieldCheckIn, Value: from, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
			gDto.Filter{ArgName: "checkin_to", Field: model.FieldCheckIn, Value: to, Operator: gDto.FilterOperatorLess, Table: model.TableName},
		},
	}
}

// Event is the payload published on booking lifecycle changes.
type Event struct {
	BookingID  string          `json:"booking_id"`
	Code       string          `json:"code"`
	State      string          `json:"state"`
	RoomID     *string         `json:"room_id"`
	CustomerID *string         `json:"customer_id"`
	CheckIn    string          `json:"checkin"`
	CheckOut   string          `json:"checkout"`
	Guests     int             `json:"guests"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewEvent(booking model.Booking) Event {
	return Event{
		BookingID:  booking.ID,
		Code:       booking.Code,
		State:      booking.State,
		RoomID:     booking.RoomID,
		CustomerID: booking.CustomerID,
		CheckIn:    booking.CheckIn.Format(constant.DayFormat),
		CheckOut:   booking.CheckOut.Format(constant.DayFormat),
		Guests:     booking.Guests,
		Total:      booking.Total,
		OccurredAt: timezone.Now(),
	}
}

// ActiveByID matches the booking only while it is still NEW, so a concurrent cancel updates nothing.
func ActiveByID(id string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			shared.FilterByID(id, model.FieldID, model.TableName),
			gDto.Filter{Field: model.FieldState, Value: model.StateNew, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}

func CancelFields(user string, at time.Time) map[string]any {
	return map[string]any{
		model.FieldState:         model.StateCancelled,
		constant.FieldModifiedAt: at,
		constant.FieldModifiedBy: user,
	}
}
