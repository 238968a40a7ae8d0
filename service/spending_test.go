package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumSpending_NoRows(t *testing.T) {
	agg := NewAggregator(&memStore{})
	total, err := agg.SumSpending(context.Background(), 1, "Food", PeriodBounds(2024, 6, time.UTC))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.Zero))
}

func TestSumSpending_CaseInsensitiveAndBounded(t *testing.T) {
	store := &memStore{}
	store.addTx(1, "Food", "10.10", date(2024, time.June, 1))
	store.addTx(1, "food", "20.20", date(2024, time.June, 15))
	store.addTx(1, " FOOD ", "0.01", date(2024, time.June, 30))
	store.addTx(1, "Food", "99.00", date(2024, time.July, 1))   // 下个月
	store.addTx(1, "Food", "99.00", date(2024, time.May, 31))   // 上个月
	store.addTx(2, "Food", "99.00", date(2024, time.June, 10))  // 其他用户
	store.addTx(1, "Travel", "5.00", date(2024, time.June, 10)) // 其他类别

	agg := NewAggregator(store)
	total, err := agg.SumSpending(context.Background(), 1, "Food", PeriodBounds(2024, 6, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "30.31", total.StringFixed(2))
}

func TestSumSpending_NoFloatDrift(t *testing.T) {
	store := &memStore{}
	for i := 0; i < 10; i++ {
		store.addTx(1, "Coffee", "0.10", date(2024, time.June, 3))
	}
	total, err := NewAggregator(store).SumSpending(context.Background(), 1, "coffee", PeriodBounds(2024, 6, time.UTC))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(1)))
}

func TestSumSpending_StoreError(t *testing.T) {
	agg := NewAggregator(&memStore{err: errStoreDown})
	_, err := agg.SumSpending(context.Background(), 1, "Food", PeriodBounds(2024, 6, time.UTC))
	assert.ErrorIs(t, err, errStoreDown)
}
