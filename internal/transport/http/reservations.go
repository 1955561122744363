package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/app"
	"github.com/HMC-Makerspace/MAKE-sub001/internal/clock"
	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

// ReservationBooker is the minimal interface the reservation endpoints need.
type ReservationBooker interface {
	CreateReservation(ctx context.Context, in app.CreateReservationInput) (domain.Reservation, error)
	CancelReservation(ctx context.Context, in app.CancelReservationInput) (domain.Reservation, error)
	GetReservation(ctx context.Context, reservationID string) (domain.Reservation, error)
	ListReservationsByHolder(ctx context.Context, holderID string) ([]domain.Reservation, error)
}

// HandleReservations serves POST /reservations and the holder-scoped listing
// at GET /reservations?holder_id=.
func HandleReservations(svc ReservationBooker, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			reservations, err := svc.ListReservationsByHolder(r.Context(), r.URL.Query().Get("holder_id"))
			if err != nil {
				writeBookingError(w, err)
				return
			}
			now := clk.Now()
			resp := make([]reservationResponse, 0, len(reservations))
			for _, res := range reservations {
				resp = append(resp, newReservationResponse(res, now))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createReservationRequest
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
		start, err := time.Parse(time.RFC3339, req.TimeStart)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid time_start format")
			return
		}
		end, err := time.Parse(time.RFC3339, req.TimeEnd)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid time_end format")
			return
		}

		reservation, err := svc.CreateReservation(r.Context(), app.CreateReservationInput{
			Items:     req.Items,
			HolderID:  req.HolderID,
			TimeStart: start,
			TimeEnd:   end,
		})
		if err != nil {
			writeBookingError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(newReservationResponse(reservation, clk.Now()))
	}
}

// HandleReservationByID serves GET /reservations/{id} and the cancel action
// beneath it.
func HandleReservationByID(svc ReservationBooker, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reservationID, action, ok := parseReservationPath(r.URL.Path)
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
			reservation, err := svc.GetReservation(r.Context(), reservationID)
			if err != nil {
				writeBookingError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(newReservationResponse(reservation, clk.Now()))

		case "cancel":
			if r.Method != http.MethodPatch {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			var req cancelReservationRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			reservation, err := svc.CancelReservation(r.Context(), app.CancelReservationInput{
				ReservationID: reservationID,
				HolderID:      req.HolderID,
				Override:      req.Override,
			})
			if err != nil {
				writeBookingError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(newReservationResponse(reservation, clk.Now()))

		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func parseReservationPath(path string) (reservationID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "reservations" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[1], "", true
	}
	return parts[1], parts[2], true
}

type createReservationRequest struct {
	Items     map[string]int `json:"items"`
	HolderID  string         `json:"holder_id"`
	TimeStart string         `json:"time_start"`
	TimeEnd   string         `json:"time_end"`
}

type cancelReservationRequest struct {
	HolderID string `json:"holder_id"`
	Override bool   `json:"override,omitempty"`
}

type reservationResponse struct {
	ID          string         `json:"id"`
	Items       map[string]int `json:"items"`
	HolderID    string         `json:"holder_id"`
	TimeCreated time.Time      `json:"time_created"`
	TimeStart   time.Time      `json:"time_start"`
	TimeEnd     time.Time      `json:"time_end"`
	CancelledAt *time.Time     `json:"cancelled_at,omitempty"`
	Status      string         `json:"status"`
}

func newReservationResponse(res domain.Reservation, now time.Time) reservationResponse {
	return reservationResponse{
		ID:          res.ID,
		Items:       res.Items,
		HolderID:    res.HolderID,
		TimeCreated: res.TimeCreated,
		TimeStart:   res.TimeStart,
		TimeEnd:     res.TimeEnd,
		CancelledAt: res.CancelledAt,
		Status:      string(res.Status(now)),
	}
}
