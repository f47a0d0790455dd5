package customer

import (
	"net/http"
	"pms/infras/otel"
	"pms/internal/domains/customer/model/dto"
	"pms/internal/domains/customer/service"
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
	service service.Customer
	otel    otel.Otel
}

func New(service service.Customer, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/customers", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateCustomer)
		routerGroup.Get("/", handler.GetCustomers)
		withID := routerGroup.With(middleware.UUIDParam(constant.RequestParamID))
		withID.Get("/{id}", handler.GetCustomerByID)
		withID.Patch("/{id}", handler.UpdateCustomer)
		withID.Delete("/{id}", handler.DeleteCustomer)
	})
}

// CreateCustomer handles the creation of a new customer.
// @Summary Create a new customer
// @Description Create a customer. The phone is stored in E.164 when it can be parsed.
// @Tags Customer
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Create Customer Request"
// @Success 201 {object} response.Data[dto.CustomerResponse] "Customer created"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/customers [post]
func (handler *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCustomer")
	defer scope.End()

	req := dto.CreateCustomerRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	customer, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create customer")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer created successfully by user " + shared.UserFromContext(ctx))

	response.WithJSON(w, http.StatusCreated, customer)
}

// GetCustomers retrieves customers based on query parameters.
// @Summary Get all customers
// @Description Retrieve customers with pagination. search matches name or email.
// @Tags Customer
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param search query string false "Name or email contains"
// @Success 200 {object} response.Data[dto.GetCustomersResponse] "List of customers"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/customers [get]
func (handler *Handler) GetCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.SearchFilter(r.URL.Query().Get(constant.RequestParamSearch))

	customers, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get customers")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, customers)
}

// GetCustomerByID retrieves a customer by its ID.
// @Summary Get a customer by ID
// @Tags Customer
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.Data[dto.CustomerResponse] "Customer details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/customers/{id} [get]
func (handler *Handler) GetCustomerByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomerByID")
	defer scope.End()

	customer, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get customer by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, customer)
}

// UpdateCustomer updates an existing customer.
// @Summary Update a customer by ID
// @Tags Customer
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body dto.UpdateCustomerRequest true "Update Customer Request"
// @Success 200 {object} response.Message "Customer updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/customers/{id} [patch]
func (handler *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCustomer")
	defer scope.End()

	req := dto.UpdateCustomerRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update customer")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer updated successfully by user " + shared.UserFromContext(ctx))

	response.WithMessage(w, http.StatusOK, "Customer updated successfully")
}

// DeleteCustomer deletes a customer. Its bookings keep existing without a customer.
// @Summary Delete a customer by ID
// @Tags Customer
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.Message "Customer deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/customers/{id} [delete]
func (handler *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteCustomer")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete customer")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer deleted successfully by user " + shared.UserFromContext(ctx))

	response.WithMessage(w, http.StatusOK, "Customer deleted successfully")
}
