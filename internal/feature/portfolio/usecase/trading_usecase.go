// Package usecase implements the trading ledger and portfolio read models.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"stock_trading_backend/internal/feature/portfolio/domain/entity"
	qentity "stock_trading_backend/internal/feature/quotes/domain/entity"
)

// QuoteGetter resolves the latest quote for a symbol.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (quotes feature).
type QuoteGetter interface {
	GetQuote(ctx context.Context, symbol string) (*qentity.Quote, error)
}

// LedgerStore is the persistence boundary of the ledger. Transact runs fn
// against a store bound to one database transaction; all mutations inside
// either commit together or roll back together.
type LedgerStore interface {
	Transact(ctx context.Context, fn func(s LedgerStore) error) error

	// Balance returns the user's cash balance in KRW, or ErrUserNotFound.
	Balance(ctx context.Context, userID uint) (int64, error)
	UpdateBalance(ctx context.Context, userID uint, balance int64) error

	// Holding returns the user's position in symbol, or ErrNoPosition.
	Holding(ctx context.Context, userID uint, symbol string) (*entity.Holding, error)
	SaveHolding(ctx context.Context, h *entity.Holding) error
	DeleteHolding(ctx context.Context, h *entity.Holding) error
	Holdings(ctx context.Context, userID uint) ([]entity.Holding, error)

	AppendTransaction(ctx context.Context, t *entity.Transaction) error
	Transactions(ctx context.Context, userID uint, limit int) ([]entity.Transaction, error)
}

// InstrumentRegistry records instrument reference data the first time a
// symbol is traded.
type InstrumentRegistry interface {
	Ensure(ctx context.Context, symbol, name, market, currency string) error
}

// TradeResult describes one executed trade.
type TradeResult struct {
	Symbol           string          `json:"symbol"`
	Quantity         int64           `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	TotalAmount      int64           `json:"total_amount"`
	Commission       int64           `json:"commission"`
	TotalCost        int64           `json:"total_cost,omitempty"`
	NetAmount        int64           `json:"net_amount,omitempty"`
	ProfitLoss       decimal.Decimal `json:"profit_loss,omitempty"`
	RemainingBalance int64           `json:"remaining_balance"`
}

// MaxBuyResult describes how many shares the user could buy with their whole
// cash balance.
type MaxBuyResult struct {
	MaxQuantity         int64           `json:"max_quantity"`
	EstimatedAmount     int64           `json:"estimated_amount"`
	EstimatedCommission int64           `json:"estimated_commission"`
	TotalCost           int64           `json:"total_cost"`
	CurrentPrice        decimal.Decimal `json:"current_price"`
	AvailableCash       int64           `json:"available_cash"`
	RemainingCash       int64           `json:"remaining_cash"`
}

// TradingUsecase executes buys and sells against quoted prices, keeping cash
// balance, position and transaction history mutually consistent. Trades for
// the same user are serialized with a per-user lock on top of the store
// transaction, so two concurrent buys can never both read the same stale
// balance.
type TradingUsecase struct {
	quotes      QuoteGetter
	store       LedgerStore
	instruments InstrumentRegistry
	locks       sync.Map // user id -> *sync.Mutex
}

// NewTradingUsecase creates a TradingUsecase.
func NewTradingUsecase(quotes QuoteGetter, store LedgerStore, instruments InstrumentRegistry) *TradingUsecase {
	return &TradingUsecase{quotes: quotes, store: store, instruments: instruments}
}

func (u *TradingUsecase) lockUser(userID uint) func() {
	v, _ := u.locks.LoadOrStore(userID, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// Buy purchases quantity shares of symbol at the current quote.
func (u *TradingUsecase) Buy(ctx context.Context, userID uint, symbol string, quantity int64) (*TradeResult, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	quote, err := u.quotes.GetQuote(ctx, symbol)
	if err != nil {
		return nil, ErrStockNotFound
	}

	price := basePrice(quote)
	market := quote.Currency
	totalAmount, commission, totalCost := tradeCost(price, quantity, market)

	u.registerInstrument(ctx, quote)

	unlock := u.lockUser(userID)
	defer unlock()

	var result *TradeResult
	err = u.store.Transact(ctx, func(s LedgerStore) error {
		balance, err := s.Balance(ctx, userID)
		if err != nil {
			return err
		}
		if balance < totalCost {
			return ErrInsufficientFunds
		}

		holding, err := s.Holding(ctx, userID, symbol)
		switch {
		case errors.Is(err, ErrNoPosition):
			holding = &entity.Holding{
				UserID:   userID,
				Symbol:   symbol,
				Quantity: quantity,
				AvgPrice: price,
				Market:   market,
			}
		case err != nil:
			return err
		default:
			newQty := holding.Quantity + quantity
			invested := holding.AvgPrice.Mul(decimal.NewFromInt(holding.Quantity)).
				Add(decimal.NewFromInt(totalAmount))
			holding.AvgPrice = invested.Div(decimal.NewFromInt(newQty)).Round(4)
			holding.Quantity = newQty
		}
		if err := s.SaveHolding(ctx, holding); err != nil {
			return err
		}

		if err := s.AppendTransaction(ctx, &entity.Transaction{
			UserID:      userID,
			Symbol:      symbol,
			Side:        entity.SideBuy,
			Quantity:    quantity,
			Price:       price,
			Commission:  commission,
			TotalAmount: totalAmount,
			Market:      market,
		}); err != nil {
			return err
		}

		newBalance := balance - totalCost
		if err := s.UpdateBalance(ctx, userID, newBalance); err != nil {
			return err
		}

		result = &TradeResult{
			Symbol:           symbol,
			Quantity:         quantity,
			Price:            price,
			TotalAmount:      totalAmount,
			Commission:       commission,
			TotalCost:        totalCost,
			RemainingBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("buy executed", "user_id", userID, "symbol", symbol,
		"quantity", quantity, "total_cost", totalCost)
	return result, nil
}

// Sell disposes quantity shares of symbol at the current quote. Average cost
// is unchanged; the holding is deleted when its quantity reaches zero.
func (u *TradingUsecase) Sell(ctx context.Context, userID uint, symbol string, quantity int64) (*TradeResult, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	quote, err := u.quotes.GetQuote(ctx, symbol)
	if err != nil {
		return nil, ErrStockNotFound
	}

	price := basePrice(quote)
	totalAmount, commission, _ := tradeCost(price, quantity, quote.Currency)
	netAmount := totalAmount - commission

	unlock := u.lockUser(userID)
	defer unlock()

	var result *TradeResult
	err = u.store.Transact(ctx, func(s LedgerStore) error {
		holding, err := s.Holding(ctx, userID, symbol)
		if err != nil {
			return err
		}
		if holding.Quantity < quantity {
			return ErrInsufficientPosition
		}

		balance, err := s.Balance(ctx, userID)
		if err != nil {
			return err
		}

		avgBefore := holding.AvgPrice
		holding.Quantity -= quantity
		if holding.Quantity == 0 {
			if err := s.DeleteHolding(ctx, holding); err != nil {
				return err
			}
		} else {
			if err := s.SaveHolding(ctx, holding); err != nil {
				return err
			}
		}

		if err := s.AppendTransaction(ctx, &entity.Transaction{
			UserID:      userID,
			Symbol:      symbol,
			Side:        entity.SideSell,
			Quantity:    quantity,
			Price:       price,
			Commission:  commission,
			TotalAmount: totalAmount,
			Market:      holding.Market,
		}); err != nil {
			return err
		}

		newBalance := balance + netAmount
		if err := s.UpdateBalance(ctx, userID, newBalance); err != nil {
			return err
		}

		result = &TradeResult{
			Symbol:      symbol,
			Quantity:    quantity,
			Price:       price,
			TotalAmount: totalAmount,
			Commission:  commission,
			NetAmount:   netAmount,
			// Informational only, not persisted.
			ProfitLoss:       price.Sub(avgBefore).Mul(decimal.NewFromInt(quantity)),
			RemainingBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("sell executed", "user_id", userID, "symbol", symbol,
		"quantity", quantity, "net_amount", netAmount)
	return result, nil
}

// MaxBuyQuantity computes the largest quantity whose total cost fits in the
// user's cash. The closed-form estimate breaks near the minimum-commission
// floor, so the result is stepped down until the cost actually fits.
func (u *TradingUsecase) MaxBuyQuantity(ctx context.Context, userID uint, symbol string) (*MaxBuyResult, error) {
	quote, err := u.quotes.GetQuote(ctx, symbol)
	if err != nil {
		return nil, ErrStockNotFound
	}
	price := basePrice(quote)
	if !price.IsPositive() {
		return nil, ErrStockNotFound
	}
	market := quote.Currency

	cash, err := u.store.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	minCommission := minCommissionFor(market)
	denom := price.Mul(decimal.NewFromInt(1).Add(commissionRateFor(market)))
	qty := decimal.NewFromInt(cash - minCommission).Div(denom).IntPart()
	if qty <= 0 {
		return &MaxBuyResult{CurrentPrice: price, AvailableCash: cash, RemainingCash: cash}, nil
	}

	amount, commission, cost := tradeCost(price, qty, market)
	for cost > cash && qty > 0 {
		qty--
		amount, commission, cost = tradeCost(price, qty, market)
	}
	if qty <= 0 {
		return &MaxBuyResult{CurrentPrice: price, AvailableCash: cash, RemainingCash: cash}, nil
	}

	return &MaxBuyResult{
		MaxQuantity:         qty,
		EstimatedAmount:     amount,
		EstimatedCommission: commission,
		TotalCost:           cost,
		CurrentPrice:        price,
		AvailableCash:       cash,
		RemainingCash:       cash - cost,
	}, nil
}

// registerInstrument records reference data on first trade, best effort.
func (u *TradingUsecase) registerInstrument(ctx context.Context, q *qentity.Quote) {
	if u.instruments == nil {
		return
	}
	if err := u.instruments.Ensure(ctx, q.Symbol, q.Name, q.Market, q.Currency); err != nil {
		slog.Warn("instrument registration failed", "symbol", q.Symbol, "error", err)
	}
}
