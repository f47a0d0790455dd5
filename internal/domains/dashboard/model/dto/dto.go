package dto

import (
	"pms/internal/domains/booking/model"
	"pms/shared/constant"
	"time"

	"github.com/shopspring/decimal"
)

type DashboardResponse struct {
	Date                string          `json:"date"`
	NewBookings         int             `json:"new_bookings"`
	IncomingGuests      int             `json:"incoming_guests"`
	OutcomingGuests     int             `json:"outcoming_guests"`
	Invoiced            decimal.Decimal `json:"invoiced"             swaggertype:"string" example:"250.00"`
	TotalRooms          int             `json:"total_rooms"`
	OccupiedRooms       int             `json:"occupied_rooms"`
	OccupancyPercentage float64         `json:"occupancy_percentage"`
}

func (r *DashboardResponse) FromSummary(day time.Time, summary model.DaySummary) {
	r.Date = day.Format(constant.DayFormat)
	r.NewBookings = summary.NewBookings
	r.IncomingGuests = summary.IncomingGuests
	r.OutcomingGuests = summary.OutcomingGuests
	r.Invoiced = summary.Invoiced
}

// ReportRequest covers bookings with checkin in [from, to).
type ReportRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to"   validate:"required,datetime=2006-01-02"`
}

type ReportResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	Bookings int    `json:"bookings"`
}
