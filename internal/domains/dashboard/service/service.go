package service

import (
	"context"
	"fmt"

	"pms/config"
	"pms/infras/otel"
	"pms/infras/s3"
	"pms/internal/domains/booking/availability"
	bookingModel "pms/internal/domains/booking/model"
	bookingDto "pms/internal/domains/booking/model/dto"
	bookingRepo "pms/internal/domains/booking/repository"
	"pms/internal/domains/dashboard/model/dto"
	"pms/internal/domains/dashboard/report"
	roomRepo "pms/internal/domains/room/repository"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/failure"
	"pms/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	maxReportDays  = 366
	reportFileName = "reservas_%s_%s_%d.xlsx"
)

var errReportTooLong = failure.BadRequestFromString(fmt.Sprintf("report range cannot exceed %d days", maxReportDays))

type Dashboard interface {
	Get(ctx context.Context, day time.Time) (dto.DashboardResponse, error)
	ExportReport(ctx context.Context, req dto.ReportRequest) (dto.ReportResponse, error)
}

type serviceImpl struct {
	bookingRepo bookingRepo.Booking
	roomRepo    roomRepo.Room
	storage     s3.Storage
	cfg         *config.Config
	otel        otel.Otel
}

func New(bookingRepo bookingRepo.Booking, roomRepo roomRepo.Room, storage s3.Storage, cfg *config.Config, otel otel.Otel) Dashboard {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		storage:     storage,
		cfg:         cfg,
		otel:        otel,
	}
}

// Get returns the counters of day. A booking counts as new on the day it was created in the
// application timezone; a room is occupied when an active booking covers the night of day.
func (s *serviceImpl) Get(ctx context.Context, day time.Time) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dashboard.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	day = timezone.TruncateDay(day)
	createdFrom := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, timezone.GetLocation())
	createdTo := createdFrom.AddDate(0, 0, 1)

	summary, err := s.bookingRepo.DaySummary(ctx, day, createdFrom, createdTo)
	if err != nil {
		log.Error().Err(err).Msg("failed to summarize bookings")

		return res, fmt.Errorf("failed to summarize bookings: %w", err)
	}

	totalRooms, err := s.roomRepo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	occupied, err := s.bookingRepo.CountOccupiedRooms(ctx, day)
	if err != nil {
		log.Error().Err(err).Msg("failed to count occupied rooms")

		return res, fmt.Errorf("failed to count occupied rooms: %w", err)
	}

	res.FromSummary(day, summary)
	res.TotalRooms = totalRooms
	res.OccupiedRooms = occupied
	res.OccupancyPercentage = availability.OccupancyPercentage(occupied, totalRooms)

	return res, nil
}

// ExportReport builds the booking workbook of the range and uploads it to object storage.
func (s *serviceImpl) ExportReport(ctx context.Context, req dto.ReportRequest) (res dto.ReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dashboard.ExportReport")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	period, err := bookingDto.StayRequest{CheckIn: req.From, CheckOut: req.To}.Stay()
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if !period.Valid() {
		return res, availability.ErrInvalidDateRange
	}

	if period.Nights() > maxReportDays {
		return res, errReportTooLong
	}

	params := gDto.QueryParams{SortBy: bookingModel.FieldCheckIn, SortDir: gDto.SortDirAsc}

	bookings, err := s.bookingRepo.GetAll(ctx, params, bookingDto.CheckInBetween(period.CheckIn, period.CheckOut))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for report")

		return res, fmt.Errorf("failed to get bookings for report: %w", err)
	}

	content, err := report.Build(report.Summarize(period.CheckIn, period.CheckOut, bookings), bookings)
	if err != nil {
		log.Error().Err(err).Msg("failed to build report")

		return res, fmt.Errorf("failed to build report: %w", err)
	}

	fileName := fmt.Sprintf(reportFileName, req.From, req.To, timezone.Now().Unix())

	url, err := s.storage.Upload(ctx, s.cfg.Booking.ReportFolder, fileName, constant.ContentTypeXLSX, content)
	if err != nil {
		log.Error().Err(err).Str("file", fileName).Msg("failed to upload report")

		return res, fmt.Errorf("failed to upload report: %w", err)
	}

	log.Info().Str("file", fileName).Int("bookings", len(bookings)).Msg("booking report exported")

	res.URL = url
	res.FileName = fileName
	res.Bookings = len(bookings)

	return res, nil
}
