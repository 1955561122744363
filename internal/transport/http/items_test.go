package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/app"
	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

func TestHandleAdminItems(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("create tracked item", func(t *testing.T) {
		t.Parallel()
		svc := &stubInventoryService{
			item: domain.InventoryItem{ID: "item-1", Name: "Soldering Iron", Stock: domain.ExactStock(4), CreatedAt: created},
		}
		body := `{"name":"Soldering Iron","quantity_code":4}`
		req := httptest.NewRequest(http.MethodPost, "/admin/items", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		HandleAdminItems(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d (body %q)", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"quantity_code":4`) {
			t.Fatalf("expected quantity code in response, got %q", rec.Body.String())
		}
	})

	t.Run("create qualitative item", func(t *testing.T) {
		t.Parallel()
		svc := &stubInventoryService{
			item: domain.InventoryItem{ID: "item-2", Name: "Solder Wire", Stock: domain.QualitativeStock(domain.StockLevelHigh), CreatedAt: created},
		}
		body := `{"name":"Solder Wire","quantity_code":-3}`
		req := httptest.NewRequest(http.MethodPost, "/admin/items", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		HandleAdminItems(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"stock_level":"high"`) {
			t.Fatalf("expected stock level in response, got %q", rec.Body.String())
		}
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()
		svc := &stubInventoryService{}
		req := httptest.NewRequest(http.MethodPost, "/admin/items", bytes.NewBufferString(`{"quantity_code":4}`))
		rec := httptest.NewRecorder()

		HandleAdminItems(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("unknown stock code", func(t *testing.T) {
		t.Parallel()
		svc := &stubInventoryService{}
		req := httptest.NewRequest(http.MethodPost, "/admin/items", bytes.NewBufferString(`{"name":"Drill","quantity_code":-9}`))
		rec := httptest.NewRecorder()

		HandleAdminItems(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("list items", func(t *testing.T) {
		t.Parallel()
		svc := &stubInventoryService{
			list: []domain.InventoryItem{
				{ID: "item-1", Name: "Drill", Stock: domain.ExactStock(2), CreatedAt: created},
				{ID: "item-2", Name: "Solder Wire", Stock: domain.QualitativeStock(domain.StockLevelLow), CreatedAt: created},
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/admin/items", nil)
		rec := httptest.NewRecorder()

		HandleAdminItems(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `"name":"Drill"`) || !strings.Contains(body, `"quantity_code":-1`) {
			t.Fatalf("expected both items in response, got %q", body)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()
		svc := &stubInventoryService{}
		req := httptest.NewRequest(http.MethodDelete, "/admin/items", nil)
		rec := httptest.NewRecorder()

		HandleAdminItems(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", rec.Code)
		}
	})
}

type stubInventoryService struct {
	item domain.InventoryItem
	list []domain.InventoryItem
	err  error
}

func (s *stubInventoryService) CreateItem(_ context.Context, _ app.CreateItemInput) (domain.InventoryItem, error) {
	return s.item, s.err
}

func (s *stubInventoryService) ListItems(_ context.Context) ([]domain.InventoryItem, error) {
	return s.list, s.err
}
