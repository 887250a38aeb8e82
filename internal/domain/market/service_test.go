package market

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-market/internal/domain/tokens"
)

// -------------------------
// Test doubles
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testLedger struct {
	byID map[uint64]tokens.Token
}

func newTestLedger() *testLedger {
	return &testLedger{byID: map[uint64]tokens.Token{}}
}

func (r *testLedger) Create(ctx context.Context, t tokens.Token) error {
	if _, ok := r.byID[t.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[t.ID] = t
	return nil
}

func (r *testLedger) GetByID(ctx context.Context, tokenID uint64) (tokens.Token, error) {
	t, ok := r.byID[tokenID]
	if !ok {
		return tokens.Token{}, errRepoNotFound
	}
	return t, nil
}

func (r *testLedger) UpdateOwner(ctx context.Context, tokenID uint64, owner string, at time.Time) error {
	t, ok := r.byID[tokenID]
	if !ok {
		return errRepoNotFound
	}
	t.Owner = owner
	t.UpdatedAt = at
	r.byID[tokenID] = t
	return nil
}

func (r *testLedger) ListByOwner(ctx context.Context, owner string) ([]tokens.Token, error) {
	out := make([]tokens.Token, 0)
	for _, t := range r.byID {
		if t.Owner == owner {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *testLedger) mint(tokenID uint64, owner string) {
	r.byID[tokenID] = tokens.Token{ID: tokenID, Owner: owner}
}

type testListings struct {
	byToken map[uint64]Listing
	order   []uint64
}

func newTestListings() *testListings {
	return &testListings{byToken: map[uint64]Listing{}}
}

func (r *testListings) Create(ctx context.Context, l Listing) error {
	if _, ok := r.byToken[l.TokenID]; ok {
		return errors.New("repo: already exists")
	}
	r.byToken[l.TokenID] = l
	r.order = append(r.order, l.TokenID)
	return nil
}

func (r *testListings) GetByTokenID(ctx context.Context, tokenID uint64) (Listing, error) {
	l, ok := r.byToken[tokenID]
	if !ok {
		return Listing{}, errRepoNotFound
	}
	return l, nil
}

func (r *testListings) Delete(ctx context.Context, tokenID uint64) error {
	delete(r.byToken, tokenID)
	for i, id := range r.order {
		if id == tokenID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *testListings) ListAll(ctx context.Context) ([]Listing, error) {
	out := make([]Listing, 0, len(r.order))
	for _, id := range r.order {
		if l, ok := r.byToken[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// testFunds acumula créditos por cuenta; failNext fuerza el rechazo
// de la siguiente transferencia.
type testFunds struct {
	credits  map[string]uint64
	failNext bool
}

func newTestFunds() *testFunds {
	return &testFunds{credits: map[string]uint64{}}
}

func (f *testFunds) CreditSeller(ctx context.Context, seller string, amount uint64) error {
	if f.failNext {
		f.failNext = false
		return errors.New("custody rejected")
	}
	f.credits[seller] += amount
	return nil
}

func newTestService(ledger *testLedger, listings *testListings, funds *testFunds) *Service {
	var mu sync.RWMutex
	svc := NewService(listings, ledger, funds, nil, &mu)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

// -------------------------
// Listing tests
// -------------------------

func TestService_ListForSale_RoundTrip(t *testing.T) {
	ledger := newTestLedger()
	listings := newTestListings()
	svc := newTestService(ledger, listings, newTestFunds())

	ledger.mint(1, "alice")

	l, err := svc.ListForSale(context.Background(), "alice", 1, 128)
	if err != nil {
		t.Fatalf("listForSale: %v", err)
	}
	if l.Seller != "alice" || l.Price != 128 {
		t.Fatalf("unexpected listing: %+v", l)
	}

	all, err := svc.AllForSale(context.Background())
	if err != nil {
		t.Fatalf("allForSale: %v", err)
	}
	if len(all) != 1 || all[0].TokenID != 1 || all[0].Price != 128 {
		t.Fatalf("unexpected listings: %+v", all)
	}

	if err := svc.RemoveFromSale(context.Background(), "alice", 1); err != nil {
		t.Fatalf("removeFromSale: %v", err)
	}

	all, _ = svc.AllForSale(context.Background())
	if len(all) != 0 {
		t.Fatalf("expected no listings after remove, got %+v", all)
	}
}

func TestService_ListForSale_AlreadyListed(t *testing.T) {
	ledger := newTestLedger()
	listings := newTestListings()
	svc := newTestService(ledger, listings, newTestFunds())

	ledger.mint(1, "alice")
	_, _ = svc.ListForSale(context.Background(), "alice", 1, 128)

	_, err := svc.ListForSale(context.Background(), "alice", 1, 999)
	if !errors.Is(err, ErrAlreadyListed) {
		t.Fatalf("expected ErrAlreadyListed, got %v", err)
	}

	// El listing original queda intacto
	l, _ := listings.GetByTokenID(context.Background(), 1)
	if l.Price != 128 {
		t.Fatalf("original price changed: %d", l.Price)
	}
}

func TestService_ListForSale_NotOwner(t *testing.T) {
	ledger := newTestLedger()
	svc := newTestService(ledger, newTestListings(), newTestFunds())

	ledger.mint(2, "bob")

	_, err := svc.ListForSale(context.Background(), "alice", 2, 128)
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	all, _ := svc.AllForSale(context.Background())
	if len(all) != 0 {
		t.Fatalf("listing created by non-owner: %+v", all)
	}
}

func TestService_ListForSale_Unminted(t *testing.T) {
	svc := newTestService(newTestLedger(), newTestListings(), newTestFunds())

	_, err := svc.ListForSale(context.Background(), "alice", 10, 128)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_AllForSale_InsertionOrder(t *testing.T) {
	ledger := newTestLedger()
	svc := newTestService(ledger, newTestListings(), newTestFunds())

	ledger.mint(3, "alice")
	ledger.mint(1, "alice")
	ledger.mint(2, "alice")

	_, _ = svc.ListForSale(context.Background(), "alice", 3, 30)
	_, _ = svc.ListForSale(context.Background(), "alice", 1, 10)
	_, _ = svc.ListForSale(context.Background(), "alice", 2, 20)

	all, _ := svc.AllForSale(context.Background())
	if len(all) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(all))
	}
	wantIDs := []uint64{3, 1, 2}
	wantPrices := []uint64{30, 10, 20}
	for i := range all {
		if all[i].TokenID != wantIDs[i] || all[i].Price != wantPrices[i] {
			t.Fatalf("order mismatch at %d: %+v", i, all[i])
		}
	}
}

func TestService_RemoveFromSale_NotListed(t *testing.T) {
	ledger := newTestLedger()
	svc := newTestService(ledger, newTestListings(), newTestFunds())

	ledger.mint(2, "carol")

	err := svc.RemoveFromSale(context.Background(), "carol", 2)
	if !errors.Is(err, ErrNotForSale) {
		t.Fatalf("expected ErrNotForSale, got %v", err)
	}
}

func TestService_RemoveFromSale_NotOwner(t *testing.T) {
	ledger := newTestLedger()
	listings := newTestListings()
	svc := newTestService(ledger, listings, newTestFunds())

	ledger.mint(2, "bob")
	_, _ = svc.ListForSale(context.Background(), "bob", 2, 128)

	err := svc.RemoveFromSale(context.Background(), "alice", 2)
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if _, err := listings.GetByTokenID(context.Background(), 2); err != nil {
		t.Fatalf("listing removed by non-owner")
	}
}

func TestService_RemoveFromSale_Unminted(t *testing.T) {
	svc := newTestService(newTestLedger(), newTestListings(), newTestFunds())

	err := svc.RemoveFromSale(context.Background(), "alice", 10234)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// -------------------------
// Settlement tests
// -------------------------

func TestService_Buy_Succeeds(t *testing.T) {
	ledger := newTestLedger()
	listings := newTestListings()
	funds := newTestFunds()
	svc := newTestService(ledger, listings, funds)

	ledger.mint(1, "alice")
	_, _ = svc.ListForSale(context.Background(), "alice", 1, 128)

	// paga de más: al seller se le acredita exactamente el precio
	l, err := svc.Buy(context.Background(), "bob", 1, 256)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if l.Seller != "alice" || l.Price != 128 {
		t.Fatalf("unexpected settled listing: %+v", l)
	}

	tk, _ := ledger.GetByID(context.Background(), 1)
	if tk.Owner != "bob" {
		t.Fatalf("expected owner bob after buy, got %q", tk.Owner)
	}
	if _, err := listings.GetByTokenID(context.Background(), 1); err == nil {
		t.Fatalf("listing still active after buy")
	}
	if got := funds.credits["alice"]; got != 128 {
		t.Fatalf("expected seller credited 128, got %d", got)
	}
	if got := funds.credits["bob"]; got != 0 {
		t.Fatalf("buyer should not be credited, got %d", got)
	}
}

func TestService_Buy_InsufficientFunds(t *testing.T) {
	ledger := newTestLedger()
	listings := newTestListings()
	funds := newTestFunds()
	svc := newTestService(ledger, listings, funds)

	ledger.mint(1, "bob")
	_, _ = svc.ListForSale(context.Background(), "bob", 1, 128)

	_, err := svc.Buy(context.Background(), "alice", 1, 64)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Nada se movió
	tk, _ := ledger.GetByID(context.Background(), 1)
	if tk.Owner != "bob" {
		t.Fatalf("owner changed on failed buy: %q", tk.Owner)
	}
	if _, err := listings.GetByTokenID(context.Background(), 1); err != nil {
		t.Fatalf("listing removed on failed buy")
	}
	if len(funds.credits) != 0 {
		t.Fatalf("funds moved on failed buy: %+v", funds.credits)
	}
}

func TestService_Buy_OwnPet(t *testing.T) {
	ledger := newTestLedger()
	listings := newTestListings()
	svc := newTestService(ledger, listings, newTestFunds())

	ledger.mint(2, "carol")
	_, _ = svc.ListForSale(context.Background(), "carol", 2, 128)

	_, err := svc.Buy(context.Background(), "carol", 2, 128)
	if !errors.Is(err, ErrOwnPet) {
		t.Fatalf("expected ErrOwnPet, got %v", err)
	}

	tk, _ := ledger.GetByID(context.Background(), 2)
	if tk.Owner != "carol" {
		t.Fatalf("owner changed on self purchase: %q", tk.Owner)
	}
}

func TestService_Buy_NotForSale(t *testing.T) {
	ledger := newTestLedger()
	svc := newTestService(ledger, newTestListings(), newTestFunds())

	ledger.mint(2, "carol")

	// no listado: falla antes de llegar al check de auto-compra
	_, err := svc.Buy(context.Background(), "carol", 2, 128)
	if !errors.Is(err, ErrNotForSale) {
		t.Fatalf("expected ErrNotForSale, got %v", err)
	}

	tk, _ := ledger.GetByID(context.Background(), 2)
	if tk.Owner != "carol" {
		t.Fatalf("owner changed: %q", tk.Owner)
	}
}

func TestService_Buy_Unminted(t *testing.T) {
	svc := newTestService(newTestLedger(), newTestListings(), newTestFunds())

	_, err := svc.Buy(context.Background(), "alice", 100, 128)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Buy_CustodyRejects(t *testing.T) {
	ledger := newTestLedger()
	listings := newTestListings()
	funds := newTestFunds()
	svc := newTestService(ledger, listings, funds)

	ledger.mint(1, "alice")
	_, _ = svc.ListForSale(context.Background(), "alice", 1, 128)

	funds.failNext = true
	_, err := svc.Buy(context.Background(), "bob", 1, 128)
	if err == nil {
		t.Fatalf("expected error when custody rejects")
	}

	// El rechazo del custodio deja todo como estaba
	tk, _ := ledger.GetByID(context.Background(), 1)
	if tk.Owner != "alice" {
		t.Fatalf("owner changed after custody reject: %q", tk.Owner)
	}
	if _, err := listings.GetByTokenID(context.Background(), 1); err != nil {
		t.Fatalf("listing removed after custody reject")
	}
	if len(funds.credits) != 0 {
		t.Fatalf("funds moved after custody reject: %+v", funds.credits)
	}
}

func TestService_Buy_PriceZero(t *testing.T) {
	ledger := newTestLedger()
	listings := newTestListings()
	funds := newTestFunds()
	svc := newTestService(ledger, listings, funds)

	ledger.mint(5, "alice")
	_, _ = svc.ListForSale(context.Background(), "alice", 5, 0)

	if _, err := svc.Buy(context.Background(), "bob", 5, 0); err != nil {
		t.Fatalf("buy at price 0: %v", err)
	}

	tk, _ := ledger.GetByID(context.Background(), 5)
	if tk.Owner != "bob" {
		t.Fatalf("expected owner bob, got %q", tk.Owner)
	}
	if got := funds.credits["alice"]; got != 0 {
		t.Fatalf("expected 0 credited for free pet, got %d", got)
	}
}
