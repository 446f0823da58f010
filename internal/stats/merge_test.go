package stats

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSourcesDeduplicates(t *testing.T) {
	sales := []Record{
		{ID: "1", Amount: decimal.NewFromInt(1000), Source: SourceSales},
	}
	bills := []Record{
		{ID: "1", Amount: decimal.NewFromInt(1000), Source: SourceBills},
		{ID: "2", Amount: decimal.NewFromInt(500), Source: SourceBills},
	}

	merged := MergeSources(sales, bills)
	require.Len(t, merged, 2)
	assert.Equal(t, SourceSales, merged[0].Source)
	assert.Equal(t, "2", merged[1].ID)
}

func TestMergeSourcesIdempotent(t *testing.T) {
	list := []Record{
		{ID: "1", Amount: decimal.NewFromInt(10)},
		{ID: "2", Amount: decimal.NewFromInt(20)},
	}
	once := MergeSources(list)
	twice := MergeSources(list, list)
	assert.Equal(t, once, twice)
}

func TestMergeSourcesFillOnly(t *testing.T) {
	t.Run("later source backfills customer", func(t *testing.T) {
		first := []Record{{ID: "x"}}
		second := []Record{{ID: "x", CustomerID: 7}}
		merged := MergeSources(first, second)
		require.Len(t, merged, 1)
		assert.Equal(t, int64(7), merged[0].CustomerID)
	})

	t.Run("reverse order keeps customer", func(t *testing.T) {
		first := []Record{{ID: "x", CustomerID: 7}}
		second := []Record{{ID: "x"}}
		merged := MergeSources(first, second)
		require.Len(t, merged, 1)
		assert.Equal(t, int64(7), merged[0].CustomerID)
	})

	t.Run("first source wins on conflict", func(t *testing.T) {
		first := []Record{{ID: "x", PaymentMethod: "Cash"}}
		second := []Record{{ID: "x", PaymentMethod: "Credit"}}
		merged := MergeSources(first, second)
		require.Len(t, merged, 1)
		assert.Equal(t, "Cash", merged[0].PaymentMethod)
	})

	t.Run("amount not overwritten", func(t *testing.T) {
		first := []Record{{ID: "x", Amount: decimal.NewFromInt(1000)}}
		second := []Record{{ID: "x", Amount: decimal.NewFromInt(999)}}
		merged := MergeSources(first, second)
		require.Len(t, merged, 1)
		assert.Equal(t, "1000", merged[0].Amount.String())
	})

	t.Run("timestamp backfilled when missing", func(t *testing.T) {
		at := time.Date(2024, 1, 15, 19, 30, 0, 0, time.Local)
		first := []Record{{ID: "x"}}
		second := []Record{{ID: "x", OccurredAt: at}}
		merged := MergeSources(first, second)
		require.Len(t, merged, 1)
		assert.True(t, at.Equal(merged[0].OccurredAt))
	})
}

func TestMergeSourcesKeepsIdentityless(t *testing.T) {
	list := []Record{
		{Amount: decimal.NewFromInt(5)},
		{Amount: decimal.NewFromInt(5)},
	}
	merged := MergeSources(list)
	assert.Len(t, merged, 2)
}
