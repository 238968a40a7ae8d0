package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"spendwatch/models"

	"github.com/shopspring/decimal"
)

type memStore struct {
	mu           sync.Mutex
	transactions []models.Transaction
	budgets      []models.Budget
	bills        []models.Bill
	err          error
}

func (s *memStore) addTx(userID uint, category, amount string, date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, models.Transaction{
		UserID:      userID,
		Category:    category,
		CategoryKey: models.NormalizeCategory(category),
		Amount:      decimal.RequireFromString(amount),
		Date:        date,
	})
}

func (s *memStore) addBudget(userID uint, category, amount string, month, year, alert int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = append(s.budgets, models.Budget{
		ID:              uint(len(s.budgets) + 1),
		UserID:          userID,
		Category:        category,
		CategoryKey:     models.NormalizeCategory(category),
		Amount:          decimal.RequireFromString(amount),
		Month:           month,
		Year:            year,
		AlertPercentage: alert,
	})
}

func (s *memStore) FindBudget(_ context.Context, userID uint, key string, month, year int) (*models.Budget, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, b := range s.budgets {
		if b.UserID == userID && b.CategoryKey == key && b.Month == month && b.Year == year {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (s *memStore) ListBudgets(_ context.Context, userID uint, month, year int) ([]models.Budget, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Budget
	for _, b := range s.budgets {
		if b.UserID == userID && b.Month == month && b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memStore) SumSpending(_ context.Context, userID uint, key string, from, to time.Time) (decimal.Decimal, error) {
	if s.err != nil {
		return decimal.Zero, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, t := range s.transactions {
		if t.UserID == userID && t.CategoryKey == key && !t.Date.Before(from) && t.Date.Before(to) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (s *memStore) ListBillsDue(_ context.Context, userID uint, from, to time.Time) ([]models.Bill, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Bill
	for _, b := range s.bills {
		if b.UserID == userID && !b.DueDate.Before(from) && b.DueDate.Before(to) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

type sentMail struct {
	subject string
	body    string
	to      []string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, subject, body string, to []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{subject: subject, body: body, to: to})
	return nil
}

type memRecorder struct {
	mu      sync.Mutex
	records []models.Notification
	err     error
}

func (r *memRecorder) RecordNotification(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *n)
	return r.err
}

var errStoreDown = errors.New("store down")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
