package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// TokenLookup valida que el token exista antes de servir su historial.
// Interfaz local para no importar tokens (tokens ya importa activity).
type TokenLookup interface {
	OwnerOf(ctx context.Context, tokenID uint64) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, ledger TokenLookup) {
	r.Get("/tokens/{tokenID}/history", listHistoryHandler(svc, ledger))
}

type entryResponse struct {
	ID           string    `json:"id"`
	TokenID      uint64    `json:"token_id"`
	Type         EntryType `json:"type"`
	Actor        string    `json:"actor"`
	Counterparty string    `json:"counterparty,omitempty"`
	Price        uint64    `json:"price,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func listHistoryHandler(svc *Service, ledger TokenLookup) http.HandlerFunc {
	// Lectura pública, igual que ownerOf.
	return func(w http.ResponseWriter, r *http.Request) {
		tokenID, err := strconv.ParseUint(strings.TrimSpace(chi.URLParam(r, "tokenID")), 10, 64)
		if err != nil {
			http.Error(w, "token id must be a positive integer", http.StatusBadRequest)
			return
		}

		if _, err := ledger.OwnerOf(r.Context(), tokenID); err != nil {
			http.Error(w, "token not found", http.StatusNotFound)
			return
		}

		items, err := svc.ListByToken(r.Context(), tokenID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, entryResponse{
				ID:           e.ID,
				TokenID:      e.TokenID,
				Type:         e.Type,
				Actor:        e.Actor,
				Counterparty: e.Counterparty,
				Price:        e.Price,
				OccurredAt:   e.OccurredAt,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// (tokens/market/activity) para evitar helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
