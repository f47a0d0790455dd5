package availability

import (
	"net/http"
	"pms/shared/failure"
)

var (
	ErrInvalidDateRange = &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "La fecha de salida debe ser posterior a la fecha de entrada",
	}
	ErrNoAvailability = &failure.Failure{
		Code:    http.StatusConflict,
		Message: "No hay disponibilidad para las fechas seleccionadas",
	}
	ErrMissingRoomType = &failure.Failure{
		Code:    http.StatusUnprocessableEntity,
		Message: "La habitación no tiene un tipo asignado, no se puede calcular el precio",
	}
	ErrRoomUnset = &failure.Failure{
		Code:    http.StatusUnprocessableEntity,
		Message: "La reserva no tiene una habitación asignada",
	}
)
