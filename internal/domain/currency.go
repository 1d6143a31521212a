package domain

import "fmt"

// Currency is the closed set of balances a wallet can hold.
type Currency string

const (
	CurrencyBTC    Currency = "BTC"
	CurrencyETH    Currency = "ETH"
	CurrencyUSDT   Currency = "USDT"
	CurrencyPaypal Currency = "PAYPAL"
	CurrencyUSD    Currency = "USD"
)

// Currencies returns every supported currency, in display order.
func Currencies() []Currency {
	return []Currency{CurrencyBTC, CurrencyETH, CurrencyUSDT, CurrencyPaypal, CurrencyUSD}
}

func (c Currency) Valid() bool {
	switch c {
	case CurrencyBTC, CurrencyETH, CurrencyUSDT, CurrencyPaypal, CurrencyUSD:
		return true
	}
	return false
}

// OnChain reports whether sends in this currency get a simulated chain hash.
func (c Currency) OnChain() bool {
	switch c {
	case CurrencyBTC, CurrencyETH, CurrencyUSDT:
		return true
	}
	return false
}

func ParseCurrency(s string) (Currency, error) {
	c := Currency(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
	return c, nil
}
