package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeAmountDerived(t *testing.T) {
	tx := Transaction{
		TotalAmount: decimal.RequireFromString("37500"),
		CashAmount:  decimal.RequireFromString("50000"),
	}
	assert.True(t, decimal.NewFromInt(12500).Equal(tx.ChangeAmount()))
}

func TestToDetailResolvesNames(t *testing.T) {
	productID := uuid.New()
	tx := Transaction{
		ID:          uuid.New(),
		TotalAmount: decimal.NewFromInt(10000),
		CashAmount:  decimal.NewFromInt(10000),
		User:        &User{Name: "Siti", Username: "siti"},
		Items: []TransactionItem{{
			ProductID:          productID,
			Quantity:           2,
			PriceAtTransaction: decimal.NewFromInt(5000),
			Subtotal:           decimal.NewFromInt(10000),
			Product:            &Product{Name: "Teh", Code: "T01", Category: &Category{Name: "Minuman"}},
		}},
	}

	d := tx.ToDetail()
	assert.Equal(t, "Siti", d.KasirName)
	assert.Equal(t, "siti", d.KasirUsername)
	require.Len(t, d.Items, 1)
	assert.Equal(t, "Minuman", d.Items[0].ProductType)
	assert.True(t, d.ChangeAmount.IsZero())
}

func TestMoneySerialisesAsString(t *testing.T) {
	body, err := json.Marshal((&Transaction{TotalAmount: decimal.RequireFromString("1500.5")}).ToSummary())
	require.NoError(t, err)
	assert.Contains(t, string(body), `"total_amount":"1500.5"`)
}
