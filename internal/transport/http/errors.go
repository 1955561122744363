package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeInvalidTime         = "invalid_time"
	codeInvalidID           = "invalid_id"
	codeInvalidQuantity     = "invalid_quantity"
	codeInvalidWindow       = "invalid_window"
	codeInvalidStock        = "invalid_stock"
	codeInsufficientStock   = "insufficient_stock"
	codeItemNotFound        = "item_not_found"
	codeCheckoutNotFound    = "checkout_not_found"
	codeReservationNotFound = "reservation_not_found"
	codeAlreadyClosed       = "already_closed"
	codeForbidden           = "forbidden"
	codeHolderRequired      = "holder_id_required"
	codeItemNameRequired    = "item_name_required"
	codeUnavailable         = "unavailable"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	// ItemID names the offending item on insufficient_stock responses.
	ItemID string `json:"item_id,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorResponse(w, status, errorResponse{Error: msg, Code: code})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(resp)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeBookingError maps booking-service errors onto HTTP statuses. Handlers
// call it after their own request validation.
func writeBookingError(w http.ResponseWriter, err error) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		writeErrorResponse(w, http.StatusConflict, errorResponse{
			Error:  stockErr.Error(),
			Code:   codeInsufficientStock,
			ItemID: stockErr.ItemID,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusConflict, codeInsufficientStock, err.Error())
	case errors.Is(err, domain.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, codeInvalidWindow, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrHolderRequired):
		writeError(w, http.StatusBadRequest, codeHolderRequired, err.Error())
	case errors.Is(err, domain.ErrItemNameRequired):
		writeError(w, http.StatusBadRequest, codeItemNameRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidStock):
		writeError(w, http.StatusBadRequest, codeInvalidStock, err.Error())
	case errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusNotFound, codeItemNotFound, err.Error())
	case errors.Is(err, domain.ErrCheckoutNotFound):
		writeError(w, http.StatusNotFound, codeCheckoutNotFound, err.Error())
	case errors.Is(err, domain.ErrReservationNotFound):
		writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyClosed):
		writeError(w, http.StatusConflict, codeAlreadyClosed, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
