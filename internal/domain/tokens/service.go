package tokens

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pet-market/internal/domain/activity"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("token not found")
	ErrAlreadyMinted = errors.New("token already minted")
	ErrNotOwner      = errors.New("caller is not the owner")
)

// Delister remueve el listing activo de un token, si existe.
// Lo implementan los repos de listings del marketplace; existe como
// interfaz local para evitar ciclos de imports (tokens <-> market).
// Delete debe ser idempotente: sin listing no es error.
type Delister interface {
	Delete(ctx context.Context, tokenID uint64) error
}

// History registra entradas en el historial del token (best-effort).
type History interface {
	Append(ctx context.Context, in activity.AppendInput) (activity.Entry, error)
}

// Service es el ledger de ownership: la fuente de verdad de tokenID -> dueño.
//
// mu es el lock del motor completo (ledger + listings), compartido con
// market.Service vía el router. Toda mutación toma el write lock por la
// sección valida-y-aplica entera; las lecturas toman el read lock.
// Las llamadas cruzadas dentro de una sección con lock van por los repos,
// nunca por métodos públicos del otro service (no es reentrante).
type Service struct {
	repo     Repository
	listings Delister
	history  History

	mu  *sync.RWMutex
	now func() time.Time
}

func NewService(repo Repository, listings Delister, history History, mu *sync.RWMutex) *Service {
	return &Service{
		repo:     repo,
		listings: listings,
		history:  history,
		mu:       mu,
		now:      time.Now,
	}
}

// Mint crea un token nuevo con dueño `to`.
// Cualquier caller autenticado puede mintear a cualquier cuenta
// (no hay rol minter en este diseño).
func (s *Service) Mint(ctx context.Context, caller, to string, tokenID uint64) (Token, error) {
	caller = strings.TrimSpace(caller)
	to = strings.TrimSpace(to)

	if caller == "" || to == "" {
		return Token{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.repo.GetByID(ctx, tokenID)
	switch {
	case err == nil:
		return Token{}, ErrAlreadyMinted
	case !errors.Is(err, ErrNotFound):
		// lookup degradado: no sabemos si el slot está libre
		return Token{}, err
	}

	now := s.now()
	t := Token{
		ID:        tokenID,
		Owner:     to,
		MintedAt:  now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return Token{}, err
	}

	s.record(ctx, activity.AppendInput{
		TokenID:      tokenID,
		Type:         activity.TypeMinted,
		Actor:        caller,
		Counterparty: to,
	})

	return t, nil
}

// OwnerOf devuelve el dueño actual del token.
func (s *Service) OwnerOf(ctx context.Context, tokenID uint64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.repo.GetByID(ctx, tokenID)
	if err != nil {
		return "", ErrNotFound
	}
	return t.Owner, nil
}

func (s *Service) GetByID(ctx context.Context, tokenID uint64) (Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.repo.GetByID(ctx, tokenID)
	if err != nil {
		return Token{}, ErrNotFound
	}
	return t, nil
}

func (s *Service) ListByOwner(ctx context.Context, owner string) ([]Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.repo.ListByOwner(ctx, owner)
}

// Transfer pasa el token a `to`. Solo el dueño actual puede transferir.
// Si el token tenía un listing activo, se invalida acá mismo: el seller
// implícito del listing dejaría de ser el dueño (ver market.Listing).
func (s *Service) Transfer(ctx context.Context, caller, to string, tokenID uint64) (Token, error) {
	caller = strings.TrimSpace(caller)
	to = strings.TrimSpace(to)

	if caller == "" || to == "" {
		return Token{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.repo.GetByID(ctx, tokenID)
	if err != nil {
		return Token{}, ErrNotFound
	}
	if t.Owner != caller {
		return Token{}, ErrNotOwner
	}

	// El listing se invalida ANTES de re-asignar el dueño: si quedara vivo
	// apuntaría a un seller que ya no es dueño, y un Buy posterior le
	// acreditaría la venta. Si la invalidación falla, el transfer falla
	// entero y el ownership queda como estaba.
	if s.listings != nil {
		if err := s.listings.Delete(ctx, tokenID); err != nil {
			return Token{}, err
		}
	}

	now := s.now()
	if err := s.repo.UpdateOwner(ctx, tokenID, to, now); err != nil {
		return Token{}, err
	}

	s.record(ctx, activity.AppendInput{
		TokenID:      tokenID,
		Type:         activity.TypeTransferred,
		Actor:        caller,
		Counterparty: to,
	})

	t.Owner = to
	t.UpdatedAt = now
	return t, nil
}

// record escribe historial best-effort: un fallo acá no revierte la operación.
func (s *Service) record(ctx context.Context, in activity.AppendInput) {
	if s.history == nil {
		return
	}
	_, _ = s.history.Append(ctx, in)
}
