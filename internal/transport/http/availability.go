package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

// AvailabilityChecker answers advisory capacity questions.
type AvailabilityChecker interface {
	Available(ctx context.Context, itemID string, quantity int, ival domain.Interval) (bool, error)
}

// HandleItemAvailability serves GET /items/{id}/availability. The verdict is
// advisory only; booking re-checks under lock.
func HandleItemAvailability(svc AvailabilityChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		itemID, ok := parseAvailabilityPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		q := r.URL.Query()
		quantity, err := strconv.Atoi(q.Get("quantity"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidQuantity, "invalid quantity")
			return
		}
		start, err := time.Parse(time.RFC3339, q.Get("start"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid start format")
			return
		}
		end, err := time.Parse(time.RFC3339, q.Get("end"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid end format")
			return
		}

		available, err := svc.Available(r.Context(), itemID, quantity, domain.Interval{Start: start, End: end})
		if err != nil {
			writeBookingError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(availabilityResponse{Available: available})
	}
}

func parseAvailabilityPath(path string) (itemID string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "items" || parts[1] == "" || parts[2] != "availability" {
		return "", false
	}
	return parts[1], true
}

type availabilityResponse struct {
	Available bool `json:"available"`
}
