package tokens

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
	r.Route("/tokens", func(tr chi.Router) {
		tr.Post("/", mintHandler(svc))
		tr.Get("/{tokenID}", getTokenHandler(svc))
		tr.Post("/{tokenID}/transfer", transferHandler(svc))
	})

	// Tokens del caller autenticado
	r.Get("/me/tokens", listMyTokensHandler(svc))
}

type mintRequest struct {
	TokenID uint64 `json:"token_id"`
	To      string `json:"to"`
}

type transferRequest struct {
	To string `json:"to"`
}

type tokenResponse struct {
	TokenID   uint64    `json:"token_id"`
	Owner     string    `json:"owner"`
	MintedAt  time.Time `json:"minted_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func mintHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req mintRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := svc.Mint(r.Context(), claims.UserID, req.To, req.TokenID)
		if err != nil {
			writeTokenError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toTokenResponse(t))
	}
}

func getTokenHandler(svc *Service) http.HandlerFunc {
	// Lectura pública: ownerOf no exige auth.
	return func(w http.ResponseWriter, r *http.Request) {
		tokenID, err := parseTokenID(chi.URLParam(r, "tokenID"))
		if err != nil {
			http.Error(w, "token id must be a positive integer", http.StatusBadRequest)
			return
		}

		t, err := svc.GetByID(r.Context(), tokenID)
		if err != nil {
			http.Error(w, "token not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toTokenResponse(t))
	}
}

func transferHandler(svc *Service) http.HandlerFunc {
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

		var req transferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := svc.Transfer(r.Context(), claims.UserID, req.To, tokenID)
		if err != nil {
			writeTokenError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toTokenResponse(t))
	}
}

func listMyTokensHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]tokenResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toTokenResponse(t))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "token not found", http.StatusNotFound)
	case errors.Is(err, ErrAlreadyMinted):
		http.Error(w, "token already minted", http.StatusConflict)
	case errors.Is(err, ErrNotOwner):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func parseTokenID(raw string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
}

func toTokenResponse(t Token) tokenResponse {
	return tokenResponse{
		TokenID:   t.ID,
		Owner:     t.Owner,
		MintedAt:  t.MintedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// (tokens/market/activity) para evitar helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
