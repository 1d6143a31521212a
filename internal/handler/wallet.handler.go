package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"wallet-ledger/internal/domain"
	"wallet-ledger/internal/rates"
	"wallet-ledger/internal/response"
	"wallet-ledger/internal/usecase/wallet"
	"wallet-ledger/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// GetBalanceHandler returns a user's balances, provisioning the wallet when
// the id is unknown.
func GetBalanceHandler(uc *wallet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		w2 := uc.GetWallet(userID)
		response.JSON(w, http.StatusOK, map[string]interface{}{
			"user_id":  w2.UserID,
			"balances": w2.Balances,
		})
	}
}

func GetTransactionsHandler(uc *wallet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		txns := uc.Transactions(userID)
		response.JSON(w, http.StatusOK, map[string]interface{}{
			"user_id":      userID,
			"transactions": txns,
			"count":        len(txns),
		})
	}
}

type addFundsRequest struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// AddFundsHandler credits a wallet directly; the deposit simulation path.
func AddFundsHandler(uc *wallet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")

		var req addFundsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		currency, err := domain.ParseCurrency(req.Currency)
		if err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		balance, err := uc.AddFunds(userID, currency, req.Amount)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		response.JSONMessage(w, http.StatusOK,
			fmt.Sprintf("Added %s %s to wallet", req.Amount, currency),
			map[string]interface{}{"balance": balance})
	}
}

type sendPaymentRequest struct {
	UserID      string          `json:"user_id"`
	RecipientID string          `json:"recipient_id"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
}

func SendPaymentHandler(uc *wallet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.UserID == "" || req.RecipientID == "" {
			response.Error(w, http.StatusBadRequest, "user_id and recipient_id are required")
			return
		}
		currency, err := domain.ParseCurrency(req.Currency)
		if err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		tx, err := uc.SendPayment(wallet.PaymentRequest{
			UserID:      req.UserID,
			RecipientID: req.RecipientID,
			Currency:    currency,
			Amount:      req.Amount,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}
		response.JSONMessage(w, http.StatusOK,
			fmt.Sprintf("Sent %s %s to %s", req.Amount, currency, req.RecipientID),
			map[string]interface{}{"transaction": tx})
	}
}

// GenerateAddressHandler returns a demo deposit address for a chain.
func GenerateAddressHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := chi.URLParam(r, "type")

		var address string
		switch kind {
		case "bitcoin", "BTC":
			address = utils.GenerateBitcoinAddress()
		case "ethereum", "ETH", "USDT":
			address = utils.GenerateEthereumAddress()
		default:
			response.Error(w, http.StatusBadRequest, "invalid address type")
			return
		}
		response.JSON(w, http.StatusOK, map[string]string{
			"type":    kind,
			"address": address,
		})
	}
}

// CryptoPricesHandler serves the oracle's current USD quotes.
func CryptoPricesHandler(oracle rates.Oracle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prices := make(map[string]decimal.Decimal)
		for _, c := range []domain.Currency{domain.CurrencyBTC, domain.CurrencyETH, domain.CurrencyUSDT} {
			if p, ok := oracle.Price(c); ok {
				prices[string(c)] = p
			}
		}
		response.JSON(w, http.StatusOK, map[string]interface{}{
			"prices":   prices,
			"currency": "USD",
		})
	}
}

// respondDomainError maps sentinel errors onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidRail),
		errors.Is(err, domain.ErrLimitExceeded),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrAccountNotVerified):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransferNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, err.Error())
	}
}
