package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/app"
	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

// InventoryManager is the admin catalog surface.
type InventoryManager interface {
	CreateItem(ctx context.Context, in app.CreateItemInput) (domain.InventoryItem, error)
	ListItems(ctx context.Context) ([]domain.InventoryItem, error)
}

// Stock codes below the lowest qualitative marker are rejected at the edge.
const minStockCode = -3

// HandleAdminItems serves GET and POST /admin/items.
func HandleAdminItems(svc InventoryManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			items, err := svc.ListItems(r.Context())
			if err != nil {
				writeBookingError(w, err)
				return
			}
			resp := make([]itemResponse, 0, len(items))
			for _, item := range items {
				resp = append(resp, newItemResponse(item))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)

		case http.MethodPost:
			var req createItemRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.Name == "" {
				writeError(w, http.StatusBadRequest, codeItemNameRequired, domain.ErrItemNameRequired.Error())
				return
			}
			if req.QuantityCode < minStockCode {
				writeError(w, http.StatusBadRequest, codeInvalidStock, "invalid quantity_code")
				return
			}

			item, err := svc.CreateItem(r.Context(), app.CreateItemInput{
				Name:  req.Name,
				Stock: domain.StockFromCode(req.QuantityCode),
			})
			if err != nil {
				writeBookingError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(newItemResponse(item))

		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type createItemRequest struct {
	Name         string `json:"name"`
	QuantityCode int    `json:"quantity_code"`
}

type itemResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	QuantityCode int       `json:"quantity_code"`
	StockLevel   string    `json:"stock_level,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func newItemResponse(item domain.InventoryItem) itemResponse {
	resp := itemResponse{
		ID:           item.ID,
		Name:         item.Name,
		QuantityCode: item.Stock.Code(),
		CreatedAt:    item.CreatedAt,
	}
	if !item.Stock.Tracked() {
		resp.StockLevel = item.Stock.Level().String()
	}
	return resp
}
