package handlers

import (
	"context"
	"net/http"

	"hemp-commons/internal/engine"
	"hemp-commons/internal/models"
	"hemp-commons/internal/store"
)

type ClickRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) HandleGetProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := s.requestContext(r)
		defer cancel()
		products, err := engine.Execute(ctx, s.Engine, "get_products", func(ctx context.Context, st *store.Store) ([]models.Product, error) {
			return st.GetProducts(ctx)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, products)
	}
}

// HandleAffiliateClick records a click. The body is optional; anonymous
// clicks are allowed.
func (s *Server) HandleAffiliateClick() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := r.PathValue("id")
		var req ClickRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, err)
				return
			}
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		_, err := engine.Execute(ctx, s.Engine, "affiliate_click", func(ctx context.Context, st *store.Store) (bool, error) {
			return true, st.TrackAffiliateClick(ctx, productID, req.UserID)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func (s *Server) HandleBusinessMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := s.requestContext(r)
		defer cancel()
		metrics, err := engine.Execute(ctx, s.Engine, "business_metrics", func(ctx context.Context, st *store.Store) (*models.BusinessMetrics, error) {
			return st.GetBusinessMetrics(ctx)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, metrics)
	}
}
