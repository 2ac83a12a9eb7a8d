package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cashierhub-api/internal/metrics"
	"cashierhub-api/internal/model"
	"cashierhub-api/internal/repository"
	"cashierhub-api/pkg/apperr"
	"cashierhub-api/pkg/database"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultSaleTimeout   = 10 * time.Second
	maxIdempotencyKeyLen = 100
)

var (
	ErrEmptyCart          = apperr.Validation("cart is empty")
	ErrInvalidQuantity    = apperr.Validation("quantity must be greater than zero")
	ErrQuantityTooLarge   = apperr.Validation("quantity is too large")
	ErrAmountTooLarge     = apperr.Validation("amount is too large")
	ErrMissingCashier     = apperr.Validation("user_id is required")
	ErrMissingProduct     = apperr.Validation("product_id is required")
	ErrNegativePrice      = apperr.Validation("price cannot be negative")
	ErrNegativeCash       = apperr.Validation("cash_amount cannot be negative")
	ErrInsufficientCash   = apperr.Validation("insufficient cash")
	ErrKeyTooLong         = apperr.Validation("idempotency key is too long")
	ErrKeyReused          = apperr.Conflict("idempotency key already used for a different sale")
	ErrCashierNotFound    = apperr.NotFound("cashier not found")
	ErrTransactionMissing = apperr.NotFound("transaction not found")
	ErrSaleTimeout        = apperr.New(apperr.CodeTransient, "sale timed out, please retry")
)

// SaleObserver receives one observation per RecordSale call.
type SaleObserver interface {
	ObserveSale(outcome string, elapsed time.Duration, units int)
}

type SaleService interface {
	RecordSale(ctx context.Context, req *RecordSaleRequest) (*SaleReceipt, error)
	ListTransactions(ctx context.Context) ([]model.TransactionSummary, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*model.TransactionDetail, error)
}

type SaleItemRequest struct {
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

type RecordSaleRequest struct {
	UserID         uuid.UUID         `json:"user_id"`
	Items          []SaleItemRequest `json:"items"`
	CashAmount     *decimal.Decimal  `json:"cash_amount,omitempty"`
	TotalPrice     *decimal.Decimal  `json:"total_price,omitempty"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
}

type SaleReceipt struct {
	TransactionID uuid.UUID       `json:"transactionId"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CashAmount    decimal.Decimal `json:"cash_amount"`
	ChangeAmount  decimal.Decimal `json:"change_amount"`
	Replayed      bool            `json:"replayed"`
}

type SaleOptions struct {
	Timeout          time.Duration
	TrustClientPrice bool
}

type saleService struct {
	tx          database.TxRunner
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	observer    SaleObserver
	opts        SaleOptions
	log         zerolog.Logger
}

func NewSaleService(
	tx database.TxRunner,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
	observer SaleObserver,
	opts SaleOptions,
	log zerolog.Logger,
) SaleService {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSaleTimeout
	}
	return &saleService{
		tx:          tx,
		userRepo:    userRepo,
		productRepo: productRepo,
		txRepo:      txRepo,
		observer:    observer,
		opts:        opts,
		log:         log.With().Str("component", "sale").Logger(),
	}
}

// line is one priced cart entry.
type line struct {
	product   *model.Product
	quantity  int
	unitPrice decimal.Decimal
	subtotal  decimal.Decimal
}

// RecordSale writes the header, every line item and every stock decrement as
// one unit. Either all of it commits or none of it does.
func (s *saleService) RecordSale(ctx context.Context, req *RecordSaleRequest) (*SaleReceipt, error) {
	start := time.Now()
	receipt, err := s.recordSale(ctx, req)
	s.observe(start, receipt, req, err)
	return receipt, err
}

func (s *saleService) recordSale(ctx context.Context, req *RecordSaleRequest) (*SaleReceipt, error) {
	if err := validateSale(req); err != nil {
		return nil, err
	}
	key := strings.TrimSpace(req.IdempotencyKey)

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	var receipt *SaleReceipt
	err := s.tx.Do(ctx, func(tx *gorm.DB) error {
		r, err := s.record(tx, req, key)
		receipt = r
		return err
	})
	if err == nil {
		return receipt, nil
	}

	// A concurrent submission with the same key won the insert.
	if key != "" && apperr.IsUniqueViolation(err, "idempotency_key") {
		replay, lookupErr := s.replay(ctx, req, key)
		if lookupErr == nil || errors.Is(lookupErr, ErrKeyReused) {
			return replay, lookupErr
		}
	}
	if ctx.Err() != nil && apperr.As(err) == nil {
		return nil, apperr.Wrap(apperr.CodeTransient, err, ErrSaleTimeout.Message())
	}
	return nil, apperr.FromStore(err, ErrTransactionMissing.Message())
}

func (s *saleService) record(tx *gorm.DB, req *RecordSaleRequest, key string) (*SaleReceipt, error) {
	if key != "" {
		existing, err := s.txRepo.FindByIdempotencyKey(tx, key)
		if err == nil {
			return replayOf(existing, req)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	exists, err := s.userRepo.ExistsTx(tx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCashierNotFound
	}

	lines, total, err := s.priceLines(tx, req.Items)
	if err != nil {
		return nil, err
	}
	if !model.AmountInRange(total) {
		return nil, ErrAmountTooLarge
	}

	cash := total
	if req.CashAmount != nil {
		cash = req.CashAmount.Round(2)
	}
	if cash.LessThan(total) {
		return nil, ErrInsufficientCash
	}
	if req.TotalPrice != nil && !req.TotalPrice.Round(2).Equal(total) {
		s.log.Warn().
			Str("client_total", req.TotalPrice.String()).
			Str("total", total.String()).
			Msg("client total differs from computed total")
	}

	header := &model.Transaction{
		UserID:      req.UserID,
		TotalAmount: total,
		CashAmount:  cash,
	}
	if key != "" {
		header.IdempotencyKey = &key
	}
	if err := s.txRepo.Create(tx, header); err != nil {
		return nil, err
	}

	for _, l := range lines {
		item := &model.TransactionItem{
			TransactionID:      header.ID,
			ProductID:          l.product.ID,
			Quantity:           l.quantity,
			PriceAtTransaction: l.unitPrice,
			Subtotal:           l.subtotal,
		}
		if err := s.txRepo.CreateItem(tx, item); err != nil {
			return nil, err
		}
	}

	// Decrement in product id order so concurrent carts lock rows in the same order.
	order := make([]line, len(lines))
	copy(order, lines)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].product.ID.String() < order[j].product.ID.String()
	})
	for _, l := range order {
		ok, err := s.productRepo.DecrementStock(tx, l.product.ID, l.quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.Conflict(fmt.Sprintf("insufficient stock for %s", l.product.Code))
		}
	}

	return receiptFor(header, false), nil
}

// priceLines resolves every cart entry against the catalog. Catalog prices are
// authoritative unless client prices are trusted by configuration.
func (s *saleService) priceLines(tx *gorm.DB, items []SaleItemRequest) ([]line, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}

	products, err := s.productRepo.FindByIDs(tx, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]line, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, decimal.Zero, apperr.NotFound(fmt.Sprintf("product %s not found", it.ProductID))
		}
		unit := p.Price
		if s.opts.TrustClientPrice && it.Price != nil {
			unit = it.Price.Round(2)
		}
		subtotal := unit.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
		total = total.Add(subtotal)
		lines = append(lines, line{product: p, quantity: it.Quantity, unitPrice: unit, subtotal: subtotal})
	}
	return lines, total, nil
}

func (s *saleService) replay(ctx context.Context, req *RecordSaleRequest, key string) (*SaleReceipt, error) {
	var receipt *SaleReceipt
	err := s.tx.Do(ctx, func(tx *gorm.DB) error {
		existing, err := s.txRepo.FindByIdempotencyKey(tx, key)
		if err != nil {
			return err
		}
		receipt, err = replayOf(existing, req)
		return err
	})
	return receipt, err
}

// replayOf returns the stored receipt when req is the same sale: same cashier
// and the same quantity per product. Prices and cash are not compared.
func replayOf(existing *model.Transaction, req *RecordSaleRequest) (*SaleReceipt, error) {
	if existing.UserID != req.UserID {
		return nil, ErrKeyReused
	}
	want := make(map[uuid.UUID]int, len(req.Items))
	for _, it := range req.Items {
		want[it.ProductID] += it.Quantity
	}
	for _, it := range existing.Items {
		want[it.ProductID] -= it.Quantity
	}
	for _, q := range want {
		if q != 0 {
			return nil, ErrKeyReused
		}
	}
	return receiptFor(existing, true), nil
}

func (s *saleService) observe(start time.Time, receipt *SaleReceipt, req *RecordSaleRequest, err error) {
	elapsed := time.Since(start)
	outcome := saleOutcome(receipt, err)

	units := 0
	if req != nil {
		for _, it := range req.Items {
			units += it.Quantity
		}
	}
	if s.observer != nil {
		s.observer.ObserveSale(outcome, elapsed, units)
	}

	switch outcome {
	case metrics.OutcomeRecorded:
		s.log.Info().
			Str("transaction_id", receipt.TransactionID.String()).
			Str("cashier_id", req.UserID.String()).
			Str("total", receipt.TotalAmount.String()).
			Int("lines", len(req.Items)).
			Dur("elapsed", elapsed).
			Msg("sale recorded")
	case metrics.OutcomeReplayed:
		s.log.Info().
			Str("transaction_id", receipt.TransactionID.String()).
			Msg("sale replayed for repeated idempotency key")
	case metrics.OutcomeTransient, metrics.OutcomeError:
		s.log.Error().Err(err).Dur("elapsed", elapsed).Msg("sale failed")
	default:
		s.log.Debug().Err(err).Str("outcome", outcome).Msg("sale rejected")
	}
}

func saleOutcome(receipt *SaleReceipt, err error) string {
	if err == nil {
		if receipt != nil && receipt.Replayed {
			return metrics.OutcomeReplayed
		}
		return metrics.OutcomeRecorded
	}
	switch apperr.CodeOf(err) {
	case apperr.CodeValidation:
		return metrics.OutcomeInvalid
	case apperr.CodeNotFound:
		return metrics.OutcomeNotFound
	case apperr.CodeConflict:
		return metrics.OutcomeConflict
	case apperr.CodeTransient:
		return metrics.OutcomeTransient
	}
	return metrics.OutcomeError
}

func validateSale(req *RecordSaleRequest) error {
	if req == nil || len(req.Items) == 0 {
		return ErrEmptyCart
	}
	if req.UserID == uuid.Nil {
		return ErrMissingCashier
	}
	for _, it := range req.Items {
		if it.ProductID == uuid.Nil {
			return ErrMissingProduct
		}
		if it.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if it.Quantity > model.MaxQuantity {
			return ErrQuantityTooLarge
		}
		if it.Price != nil && it.Price.IsNegative() {
			return ErrNegativePrice
		}
		if it.Price != nil && !model.AmountInRange(*it.Price) {
			return ErrAmountTooLarge
		}
	}
	if req.CashAmount != nil && req.CashAmount.IsNegative() {
		return ErrNegativeCash
	}
	if req.CashAmount != nil && !model.AmountInRange(*req.CashAmount) {
		return ErrAmountTooLarge
	}
	if len(strings.TrimSpace(req.IdempotencyKey)) > maxIdempotencyKeyLen {
		return ErrKeyTooLong
	}
	return nil
}

func receiptFor(t *model.Transaction, replayed bool) *SaleReceipt {
	return &SaleReceipt{
		TransactionID: t.ID,
		TotalAmount:   t.TotalAmount,
		CashAmount:    t.CashAmount,
		ChangeAmount:  t.ChangeAmount(),
		Replayed:      replayed,
	}
}

func (s *saleService) ListTransactions(ctx context.Context) ([]model.TransactionSummary, error) {
	transactions, err := s.txRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.FromStore(err, ErrTransactionMissing.Message())
	}
	out := make([]model.TransactionSummary, len(transactions))
	for i := range transactions {
		out[i] = transactions[i].ToSummary()
	}
	return out, nil
}

func (s *saleService) GetTransaction(ctx context.Context, id uuid.UUID) (*model.TransactionDetail, error) {
	transaction, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, ErrTransactionMissing.Message())
	}
	detail := transaction.ToDetail()
	return &detail, nil
}
