package service

import (
	"context"
	"testing"
	"time"

	"spendwatch/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billDue(id, userID uint, name string, due time.Time) models.Bill {
	return models.Bill{ID: id, UserID: userID, Name: name, Amount: decimal.NewFromInt(50), DueDate: due}
}

func TestDueSoon_InclusiveWindow(t *testing.T) {
	store := &memStore{bills: []models.Bill{
		billDue(1, 1, "yesterday", date(2024, time.May, 31)),
		billDue(2, 1, "today", date(2024, time.June, 1)),
		billDue(3, 1, "last day", date(2024, time.June, 8)),
		billDue(4, 1, "too late", date(2024, time.June, 9)),
		billDue(5, 2, "other user", date(2024, time.June, 3)),
	}}

	// 传入带时分秒的 today，窗口仍按自然日计算
	today := time.Date(2024, time.June, 1, 18, 30, 0, 0, time.UTC)
	bills, err := NewBillScanner(store).DueSoon(context.Background(), 1, today, 7)
	require.NoError(t, err)

	var names []string
	for _, b := range bills {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"today", "last day"}, names)
}

func TestDueSoon_EmptyIsNotError(t *testing.T) {
	bills, err := NewBillScanner(&memStore{}).DueSoon(context.Background(), 1, date(2024, time.June, 1), 7)
	require.NoError(t, err)
	assert.NotNil(t, bills)
	assert.Empty(t, bills)
}

func TestDueSoon_ZeroLookahead(t *testing.T) {
	store := &memStore{bills: []models.Bill{
		billDue(1, 1, "today", date(2024, time.June, 1)),
		billDue(2, 1, "tomorrow", date(2024, time.June, 2)),
	}}
	bills, err := NewBillScanner(store).DueSoon(context.Background(), 1, date(2024, time.June, 1), 0)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "today", bills[0].Name)
}

func TestDueSoon_StoreError(t *testing.T) {
	_, err := NewBillScanner(&memStore{err: errStoreDown}).DueSoon(context.Background(), 1, date(2024, time.June, 1), 7)
	assert.ErrorIs(t, err, errStoreDown)
}
