package market

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pet-market/internal/domain/activity"
	"pet-market/internal/domain/tokens"
	"pet-market/internal/ports/funds"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("token not found")
	ErrNotOwner          = errors.New("caller is not the owner")
	ErrAlreadyListed     = errors.New("token already listed")
	ErrNotForSale        = errors.New("token not for sale")
	ErrOwnPet            = errors.New("cannot buy your own pet")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// History registra entradas en el historial del token (best-effort).
type History interface {
	Append(ctx context.Context, in activity.AppendInput) (activity.Entry, error)
}

// Service maneja listings y settlement sobre el ledger de tokens.
//
// Accede al ownership vía tokens.Repository (no tokens.Service): comparte
// el lock del motor con el ledger y dentro de una sección con lock no se
// puede reentrar al service del otro módulo.
type Service struct {
	repo    Repository
	ledger  tokens.Repository
	funds   funds.Transferor
	history History

	mu  *sync.RWMutex
	now func() time.Time
}

func NewService(repo Repository, ledger tokens.Repository, ft funds.Transferor, history History, mu *sync.RWMutex) *Service {
	return &Service{
		repo:    repo,
		ledger:  ledger,
		funds:   ft,
		history: history,
		mu:      mu,
		now:     time.Now,
	}
}

// ListForSale publica un token a precio fijo. Solo el dueño actual puede
// listar, y cada token admite a lo sumo un listing activo.
func (s *Service) ListForSale(ctx context.Context, caller string, tokenID, price uint64) (Listing, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return Listing{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.ledger.GetByID(ctx, tokenID)
	if err != nil {
		return Listing{}, ErrNotFound
	}
	if t.Owner != caller {
		return Listing{}, ErrNotOwner
	}
	if _, err := s.repo.GetByTokenID(ctx, tokenID); err == nil {
		return Listing{}, ErrAlreadyListed
	}

	l := Listing{
		TokenID:   tokenID,
		Seller:    caller,
		Price:     price,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return Listing{}, err
	}

	s.record(ctx, activity.AppendInput{
		TokenID: tokenID,
		Type:    activity.TypeListed,
		Actor:   caller,
		Price:   price,
	})

	return l, nil
}

// RemoveFromSale retira el listing activo de un token. Solo el dueño.
func (s *Service) RemoveFromSale(ctx context.Context, caller string, tokenID uint64) error {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.ledger.GetByID(ctx, tokenID)
	if err != nil {
		return ErrNotFound
	}
	if _, err := s.repo.GetByTokenID(ctx, tokenID); err != nil {
		return ErrNotForSale
	}
	if t.Owner != caller {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, tokenID); err != nil {
		return err
	}

	s.record(ctx, activity.AppendInput{
		TokenID: tokenID,
		Type:    activity.TypeDelisted,
		Actor:   caller,
	})

	return nil
}

// AllForSale devuelve los listings activos en orden de publicación.
func (s *Service) AllForSale(ctx context.Context) ([]Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.repo.ListAll(ctx)
}

// Buy ejecuta la compra como una transición atómica: valida en orden
// (existe -> está en venta -> no es auto-compra -> alcanza la plata),
// acredita exactamente el precio del listing al seller, pasa el ownership
// al comprador y borra el listing. Cualquier precondición que falle deja
// ledger, listings y fondos sin tocar.
//
// El excedente sobre el precio NO se acredita al seller: queda en el
// contexto de pago del comprador (política elegida; el custodio externo
// decide qué hacer con él).
func (s *Service) Buy(ctx context.Context, caller string, tokenID, paid uint64) (Listing, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return Listing{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.ledger.GetByID(ctx, tokenID)
	if err != nil {
		return Listing{}, ErrNotFound
	}
	l, err := s.repo.GetByTokenID(ctx, tokenID)
	if err != nil {
		return Listing{}, ErrNotForSale
	}
	if t.Owner == caller {
		return Listing{}, ErrOwnPet
	}
	if paid < l.Price {
		return Listing{}, ErrInsufficientFunds
	}

	// El crédito al seller es sincrónico y va antes de mutar estado local:
	// si el custodio rechaza, la compra falla completa.
	if err := s.funds.CreditSeller(ctx, l.Seller, l.Price); err != nil {
		return Listing{}, err
	}

	if err := s.ledger.UpdateOwner(ctx, tokenID, caller, s.now()); err != nil {
		return Listing{}, err
	}
	if err := s.repo.Delete(ctx, tokenID); err != nil {
		return Listing{}, err
	}

	s.record(ctx, activity.AppendInput{
		TokenID:      tokenID,
		Type:         activity.TypeSold,
		Actor:        caller,
		Counterparty: l.Seller,
		Price:        l.Price,
	})

	return l, nil
}

func (s *Service) record(ctx context.Context, in activity.AppendInput) {
	if s.history == nil {
		return
	}
	_, _ = s.history.Append(ctx, in)
}
