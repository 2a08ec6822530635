package handlers

import (
	"context"
	"net/http"

	"hemp-commons/internal/engine"
	"hemp-commons/internal/models"
	"hemp-commons/internal/store"
	"hemp-commons/internal/utils"
)

type WalletRequest struct {
	Address string       `json:"address"`
	Chain   models.Chain `json:"chain"`
}

// TokenConversionRequest estimates tokens for Points. A zero Rate uses the
// default.
type TokenConversionRequest struct {
	Points int `json:"points"`
	Rate   int `json:"rate"`
}

func (s *Server) HandleGetWallet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("id")
		ctx, cancel := s.requestContext(r)
		defer cancel()
		wallet, err := engine.Execute(ctx, s.Engine, "get_wallet", func(ctx context.Context, st *store.Store) (*models.WalletAddress, error) {
			return st.GetWalletAddress(ctx, userID)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if wallet == nil {
			writeError(w, utils.NewNotFoundError("wallet", userID))
			return
		}
		writeJSON(w, http.StatusOK, wallet)
	}
}

func (s *Server) HandleSaveWallet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("id")
		var req WalletRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		wallet, err := engine.Execute(ctx, s.Engine, "save_wallet", func(ctx context.Context, st *store.Store) (*models.WalletAddress, error) {
			return st.SaveWalletAddress(ctx, userID, req.Address, req.Chain)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, wallet)
	}
}

func (s *Server) HandleGetTokenConversions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("id")
		ctx, cancel := s.requestContext(r)
		defer cancel()
		conversions, err := engine.Execute(ctx, s.Engine, "get_token_conversions", func(ctx context.Context, st *store.Store) ([]models.TokenConversion, error) {
			return st.GetTokenConversions(ctx, userID)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, conversions)
	}
}

func (s *Server) HandleTokenConversion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("id")
		var req TokenConversionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		conversion, err := engine.Execute(ctx, s.Engine, "token_conversion", func(ctx context.Context, st *store.Store) (*models.TokenConversion, error) {
			return st.SaveTokenConversion(ctx, userID, req.Points, req.Rate)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, conversion)
	}
}
