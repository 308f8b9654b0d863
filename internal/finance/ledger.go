package finance

import (
	"context"
	"fmt"
	"sync"

	"xbitocom/internal/validate"

	"github.com/google/uuid"
)

type Kind string

const (
	OneTime   Kind = "one_time"
	Recurring Kind = "recurring"
)

// Transaction amounts are signed: expenses are negative.
type Transaction struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"kind"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      int    `json:"amount"`
	Month       int    `json:"month"`
}

// Ledger tracks agency funds
type Ledger struct {
	Balance      int           `json:"balance"`
	Month        int           `json:"month"`
	Transactions []Transaction `json:"transactions"`
}

func NewLedger(funds int) Ledger {
	return Ledger{Balance: funds, Transactions: []Transaction{}}
}

// Has checks if the balance covers amount
func (l *Ledger) Has(amount int) bool {
	return l.Balance >= amount
}

type SpendResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Balance int    `json:"balance"`
}

// Spend debits amount only when the balance covers it.
func (l *Ledger) Spend(kind Kind, category, description string, amount int) (SpendResult, error) {
	if err := validate.First(
		validate.OneOf("kind", kind, OneTime, Recurring),
		validate.NonNegative("amount", amount),
	); err != nil {
		return SpendResult{}, err
	}
	if !l.Has(amount) {
		return SpendResult{
			Message: fmt.Sprintf("insufficient funds for %s: need %d, have %d", description, amount, l.Balance),
			Balance: l.Balance,
		}, nil
	}
	l.record(kind, category, description, -amount)
	return SpendResult{Success: true, Message: description, Balance: l.Balance}, nil
}

// Charge debits amount even into overdraft. Upkeep uses it: bills arrive
// whether or not the money is there.
func (l *Ledger) Charge(kind Kind, category, description string, amount int) error {
	if err := validate.First(
		validate.OneOf("kind", kind, OneTime, Recurring),
		validate.NonNegative("amount", amount),
	); err != nil {
		return err
	}
	l.record(kind, category, description, -amount)
	return nil
}

func (l *Ledger) Credit(kind Kind, category, description string, amount int) error {
	if err := validate.First(
		validate.OneOf("kind", kind, OneTime, Recurring),
		validate.NonNegative("amount", amount),
	); err != nil {
		return err
	}
	l.record(kind, category, description, amount)
	return nil
}

func (l *Ledger) record(kind Kind, category, description string, amount int) {
	l.Balance += amount
	l.Transactions = append(l.Transactions, Transaction{
		ID:          uuid.NewString(),
		Kind:        kind,
		Category:    category,
		Description: description,
		Amount:      amount,
		Month:       l.Month,
	})
}

// Totals sums expenses per kind for month.
func (l *Ledger) Totals(month int) map[Kind]int {
	out := map[Kind]int{}
	for _, t := range l.Transactions {
		if t.Month == month && t.Amount < 0 {
			out[t.Kind] += -t.Amount
		}
	}
	return out
}

// Repository for ledger persistence
type Repository interface {
	Get(ctx context.Context) (Ledger, error)
	Update(ctx context.Context, l Ledger) error
}

// MemoryRepo is an in-memory ledger repository
type MemoryRepo struct {
	mu     sync.RWMutex
	ledger Ledger
}

func NewMemoryRepo(funds int) *MemoryRepo {
	return &MemoryRepo{ledger: NewLedger(funds)}
}

func (r *MemoryRepo) Get(ctx context.Context) (Ledger, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	l := r.ledger
	l.Transactions = append([]Transaction{}, r.ledger.Transactions...)
	return l, nil
}

func (r *MemoryRepo) Update(ctx context.Context, l Ledger) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	l.Transactions = append([]Transaction{}, l.Transactions...)
	r.ledger = l
	return nil
}
