package market

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-market/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/market/listings", func(mr chi.Router) {
		mr.Post("/", listForSaleHandler(svc))
		mr.Get("/", allForSaleHandler(svc))
		mr.Delete("/{tokenID}", removeFromSaleHandler(svc))
		mr.Post("/{tokenID}/buy", buyHandler(svc))
	})
}

type listForSaleRequest struct {
	TokenID uint64 `json:"token_id"`
	Price   uint64 `json:"price"`
}

type buyRequest struct {
	Amount uint64 `json:"amount"`
}

type listingResponse struct {
	TokenID   uint64    `json:"token_id"`
	Seller    string    `json:"seller"`
	Price     uint64    `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// allForSaleResponse son dos secuencias paralelas: token_ids[i] se vende a
// prices[i]. Mismo shape que getAllPetsForSale del contrato original.
type allForSaleResponse struct {
	TokenIDs []uint64 `json:"token_ids"`
	Prices   []uint64 `json:"prices"`
}

func listForSaleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req listForSaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		l, err := svc.ListForSale(r.Context(), claims.UserID, req.TokenID, req.Price)
		if err != nil {
			writeMarketError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toListingResponse(l))
	}
}

func allForSaleHandler(svc *Service) http.HandlerFunc {
	// Lectura pública, nunca falla (lista vacía => arrays vacíos).
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.AllForSale(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := allForSaleResponse{
			TokenIDs: make([]uint64, 0, len(items)),
			Prices:   make([]uint64, 0, len(items)),
		}
		for _, l := range items {
			out.TokenIDs = append(out.TokenIDs, l.TokenID)
			out.Prices = append(out.Prices, l.Price)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func removeFromSaleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tokenID, err := parseTokenID(chi.URLParam(r, "tokenID"))
		if err != nil {
			http.Error(w, "token id must be a positive integer", http.StatusBadRequest)
			return
		}

		if err := svc.RemoveFromSale(r.Context(), claims.UserID, tokenID); err != nil {
			writeMarketError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func buyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tokenID, err := parseTokenID(chi.URLParam(r, "tokenID"))
		if err != nil {
			http.Error(w, "token id must be a positive integer", http.StatusBadRequest)
			return
		}

		var req buyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		l, err := svc.Buy(r.Context(), claims.UserID, tokenID, req.Amount)
		if err != nil {
			writeMarketError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toListingResponse(l))
	}
}

func writeMarketError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "token not found", http.StatusNotFound)
	case errors.Is(err, ErrNotOwner):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrAlreadyListed):
		http.Error(w, "token already listed", http.StatusConflict)
	case errors.Is(err, ErrNotForSale):
		http.Error(w, "token not for sale", http.StatusConflict)
	case errors.Is(err, ErrOwnPet):
		http.Error(w, "cannot buy your own pet", http.StatusConflict)
	case errors.Is(err, ErrInsufficientFunds):
		http.Error(w, "insufficient funds", http.StatusPaymentRequired)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func parseTokenID(raw string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
}

func toListingResponse(l Listing) listingResponse {
	return listingResponse{
		TokenID:   l.TokenID,
		Seller:    l.Seller,
		Price:     l.Price,
		CreatedAt: l.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// (tokens/market/activity) para evitar helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
