package rates

import (
	"wallet-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// Oracle returns a current USD unit price for a currency code.
type Oracle interface {
	Price(currency domain.Currency) (decimal.Decimal, bool)
}

// MockOracle serves fixed demo quotes. A real feed would sit behind the
// same interface.
type MockOracle struct {
	prices map[domain.Currency]decimal.Decimal
}

func NewMockOracle() *MockOracle {
	return &MockOracle{
		prices: map[domain.Currency]decimal.Decimal{
			domain.CurrencyBTC:  decimal.NewFromInt(45_000),
			domain.CurrencyETH:  decimal.NewFromInt(2_500),
			domain.CurrencyUSDT: decimal.NewFromInt(1),
		},
	}
}

func (o *MockOracle) Price(currency domain.Currency) (decimal.Decimal, bool) {
	p, ok := o.prices[currency]
	return p, ok
}
