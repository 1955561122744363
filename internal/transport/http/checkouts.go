package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/app"
	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

// CheckoutBooker is the minimal interface the checkout endpoints need.
type CheckoutBooker interface {
	CreateCheckout(ctx context.Context, in app.CreateCheckoutInput) (domain.Checkout, error)
	RenewCheckout(ctx context.Context, in app.RenewCheckoutInput) (domain.Checkout, error)
	CheckIn(ctx context.Context, checkoutID string) (domain.Checkout, error)
	GetCheckout(ctx context.Context, checkoutID string) (domain.Checkout, error)
	ListCheckoutsByHolder(ctx context.Context, holderID string) ([]domain.Checkout, error)
}

// HandleCheckouts serves POST /checkouts and the holder-scoped listing at
// GET /checkouts?holder_id=.
func HandleCheckouts(svc CheckoutBooker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			checkouts, err := svc.ListCheckoutsByHolder(r.Context(), r.URL.Query().Get("holder_id"))
			if err != nil {
				writeBookingError(w, err)
				return
			}
			resp := make([]checkoutResponse, 0, len(checkouts))
			for _, c := range checkouts {
				resp = append(resp, newCheckoutResponse(c))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createCheckoutRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.HolderID == "" {
			writeError(w, http.StatusBadRequest, codeHolderRequired, domain.ErrHolderRequired.Error())
			return
		}
		due, err := time.Parse(time.RFC3339, req.TimeDue)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid time_due format")
			return
		}

		checkout, err := svc.CreateCheckout(r.Context(), app.CreateCheckoutInput{
			Items:    req.Items,
			HolderID: req.HolderID,
			TimeDue:  due,
		})
		if err != nil {
			writeBookingError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(newCheckoutResponse(checkout))
	}
}

// HandleCheckoutByID serves GET /checkouts/{id} and the renew/check_in
// actions beneath it.
func HandleCheckoutByID(svc CheckoutBooker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checkoutID, action, ok := parseCheckoutPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch action {
		case "":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			checkout, err := svc.GetCheckout(r.Context(), checkoutID)
			if err != nil {
				writeBookingError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(newCheckoutResponse(checkout))

		case "renew":
			if r.Method != http.MethodPatch {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			var req renewCheckoutRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			newDue, err := time.Parse(time.RFC3339, req.NewDue)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid new_due format")
				return
			}
			checkout, err := svc.RenewCheckout(r.Context(), app.RenewCheckoutInput{
				CheckoutID: checkoutID,
				NewDue:     newDue,
			})
			if err != nil {
				writeBookingError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(newCheckoutResponse(checkout))

		case "check_in":
			if r.Method != http.MethodPatch {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			checkout, err := svc.CheckIn(r.Context(), checkoutID)
			if err != nil {
				writeBookingError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(newCheckoutResponse(checkout))

		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func parseCheckoutPath(path string) (checkoutID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "checkouts" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[1], "", true
	}
	return parts[1], parts[2], true
}

type createCheckoutRequest struct {
	Items    map[string]int `json:"items"`
	HolderID string         `json:"holder_id"`
	TimeDue  string         `json:"time_due"`
}

type renewCheckoutRequest struct {
	NewDue string `json:"new_due"`
}

type checkoutResponse struct {
	ID                string         `json:"id"`
	Items             map[string]int `json:"items"`
	HolderID          string         `json:"holder_id"`
	TimeOut           time.Time      `json:"time_out"`
	TimeDue           time.Time      `json:"time_due"`
	TimeIn            *time.Time     `json:"time_in,omitempty"`
	NotificationsSent int            `json:"notifications_sent"`
}

func newCheckoutResponse(c domain.Checkout) checkoutResponse {
	return checkoutResponse{
		ID:                c.ID,
		Items:             c.Items,
		HolderID:          c.HolderID,
		TimeOut:           c.TimeOut,
		TimeDue:           c.TimeDue,
		TimeIn:            c.TimeIn,
		NotificationsSent: c.NotificationsSent,
	}
}
