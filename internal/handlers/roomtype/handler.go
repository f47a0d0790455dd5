package roomtype

import (
	"net/http"
	"pms/infras/otel"
	"pms/internal/domains/roomtype/model"
	"pms/internal/domains/roomtype/model/dto"
	"pms/internal/domains/roomtype/service"
	"pms/shared"
	"pms/shared/constant"
	gDto "pms/shared/dto"
	"pms/shared/validator"
	"pms/transport/http/middleware"
	"pms/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.RoomType
	otel    otel.Otel
}

func New(service service.RoomType, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/room-types", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoomType)
		routerGroup.Get("/", handler.GetRoomTypes)
		withID := routerGroup.With(middleware.UUIDParam(constant.RequestParamID))
		withID.Get("/{id}", handler.GetRoomTypeByID)
		withID.Patch("/{id}", handler.UpdateRoomType)
		withID.Delete("/{id}", handler.DeleteRoomType)
	})
}

// CreateRoomType handles the creation of a new room type.
// @Summary Create a new room type
// @Tags RoomType
// @Accept json
// @Produce json
// @Param request body dto.CreateRoomTypeRequest true "Create Room Type Request"
// @Success 201 {object} response.Data[dto.RoomTypeResponse] "Room type created"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/room-types [post]
func (handler *Handler) CreateRoomType(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoomType")
	defer scope.End()

	req := dto.CreateRoomTypeRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	roomType, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room type")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room type created successfully by user " + shared.UserFromContext(ctx))

	response.WithJSON(w, http.StatusCreated, roomType)
}

// GetRoomTypes retrieves room types based on query parameters.
// @Summary Get all room types
// @Tags RoomType
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Success 200 {object} response.Data[dto.GetRoomTypesResponse] "List of room types"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/room-types [get]
func (handler *Handler) GetRoomTypes(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomTypes")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if name := r.URL.Query().Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	roomTypes, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room types")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, roomTypes)
}

// GetRoomTypeByID retrieves a room type by its ID.
// @Summary Get a room type by ID
// @Tags RoomType
// @Produce json
// @Param id path string true "Room type ID"
// @Success 200 {object} response.Data[dto.RoomTypeResponse] "Room type details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/room-types/{id} [get]
func (handler *Handler) GetRoomTypeByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomTypeByID")
	defer scope.End()

	roomType, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room type by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, roomType)
}

// UpdateRoomType updates an existing room type.
// @Summary Update a room type by ID
// @Tags RoomType
// @Accept json
// @Produce json
// @Param id path string true "Room type ID"
// @Param request body dto.UpdateRoomTypeRequest true "Update Room Type Request"
// @Success 200 {object} response.Message "Room type updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/room-types/{id} [patch]
func (handler *Handler) UpdateRoomType(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoomType")
	defer scope.End()

	req := dto.UpdateRoomTypeRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room type")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room type updated successfully by user " + shared.UserFromContext(ctx))

	response.WithMessage(w, http.StatusOK, "Room type updated successfully")
}

// DeleteRoomType deletes a room type. Rooms of that type keep existing with no type.
// @Summary Delete a room type by ID
// @Tags RoomType
// @Produce json
// @Param id path string true "Room type ID"
// @Success 200 {object} response.Message "Room type deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/room-types/{id} [delete]
func (handler *Handler) DeleteRoomType(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoomType")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete room type")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room type deleted successfully by user " + shared.UserFromContext(ctx))

	response.WithMessage(w, http.StatusOK, "Room type deleted successfully")
}
