package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a sale header. Change is derived, never stored.
type Transaction struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User             `gorm:"foreignKey:UserID" json:"-"`
	TotalAmount     decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	CashAmount      decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"cash_amount"`
	TransactionDate time.Time         `gorm:"not null;index:idx_transactions_date" json:"transaction_date"`
	IdempotencyKey  *string           `gorm:"type:varchar(100);uniqueIndex:idx_transactions_idempotency_key" json:"-"`
	Items           []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	if t.TransactionDate.IsZero() {
		t.TransactionDate = time.Now()
	}
	return nil
}

func (t *Transaction) ChangeAmount() decimal.Decimal {
	return t.CashAmount.Sub(t.TotalAmount)
}

// TransactionItem is one cart line with the unit price captured at sale time.
type TransactionItem struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product            *Product        `gorm:"foreignKey:ProductID" json:"-"`
	Quantity           int             `gorm:"not null;check:chk_transaction_items_quantity,quantity > 0" json:"quantity"`
	PriceAtTransaction decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_at_transaction"`
	Subtotal           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
}

func (i *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// TransactionSummary is a list row: header plus cashier name and change.
type TransactionSummary struct {
	ID              uuid.UUID       `json:"id"`
	TransactionDate time.Time       `json:"transaction_date"`
	UserID          uuid.UUID       `json:"user_id"`
	KasirName       string          `json:"kasir_name"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CashAmount      decimal.Decimal `json:"cash_amount"`
	ChangeAmount    decimal.Decimal `json:"change_amount"`
}

type TransactionItemDetail struct {
	ProductID          uuid.UUID       `json:"product_id"`
	Quantity           int             `json:"quantity"`
	PriceAtTransaction decimal.Decimal `json:"price_at_transaction"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	ProductName        string          `json:"product_name"`
	ProductCode        string          `json:"product_code"`
	ProductType        string          `json:"product_type"`
}

type TransactionDetail struct {
	ID              uuid.UUID               `json:"id"`
	TransactionDate time.Time               `json:"transaction_date"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	CashAmount      decimal.Decimal         `json:"cash_amount"`
	ChangeAmount    decimal.Decimal         `json:"change_amount"`
	KasirName       string                  `json:"kasir_name"`
	KasirUsername   string                  `json:"kasir_username"`
	Items           []TransactionItemDetail `json:"items"`
}

// ToSummary expects User to be preloaded (unscoped, so deleted cashiers still resolve).
func (t *Transaction) ToSummary() TransactionSummary {
	s := TransactionSummary{
		ID:              t.ID,
		TransactionDate: t.TransactionDate,
		UserID:          t.UserID,
		TotalAmount:     t.TotalAmount,
		CashAmount:      t.CashAmount,
		ChangeAmount:    t.ChangeAmount(),
	}
	if t.User != nil {
		s.KasirName = t.User.Name
	}
	return s
}

// ToDetail expects User, Items, Items.Product and Items.Product.Category to be preloaded.
func (t *Transaction) ToDetail() TransactionDetail {
	d := TransactionDetail{
		ID:              t.ID,
		TransactionDate: t.TransactionDate,
		TotalAmount:     t.TotalAmount,
		CashAmount:      t.CashAmount,
		ChangeAmount:    t.ChangeAmount(),
		Items:           make([]TransactionItemDetail, 0, len(t.Items)),
	}
	if t.User != nil {
		d.KasirName = t.User.Name
		d.KasirUsername = t.User.Username
	}
	for _, it := range t.Items {
		item := TransactionItemDetail{
			ProductID:          it.ProductID,
			Quantity:           it.Quantity,
			PriceAtTransaction: it.PriceAtTransaction,
			Subtotal:           it.Subtotal,
		}
		if it.Product != nil {
			item.ProductName = it.Product.Name
			item.ProductCode = it.Product.Code
			if it.Product.Category != nil {
				item.ProductType = it.Product.Category.Name
			}
		}
		d.Items = append(d.Items, item)
	}
	return d
}
