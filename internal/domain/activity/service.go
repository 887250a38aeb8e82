package activity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type AppendInput struct {
	TokenID      uint64
	Type         EntryType
	Actor        string
	Counterparty string
	Price        uint64
}

func (s *Service) Append(ctx context.Context, in AppendInput) (Entry, error) {
	if in.Type == "" {
		return Entry{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Actor) == "" {
		return Entry{}, ErrInvalidInput
	}

	e := Entry{
		ID:           uuid.NewString(),
		TokenID:      in.TokenID,
		Type:         in.Type,
		Actor:        strings.TrimSpace(in.Actor),
		Counterparty: strings.TrimSpace(in.Counterparty),
		Price:        in.Price,
		OccurredAt:   s.now(),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) ListByToken(ctx context.Context, tokenID uint64) ([]Entry, error) {
	return s.repo.ListByToken(ctx, tokenID)
}
