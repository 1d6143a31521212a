package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"wallet-ledger/internal/domain"
	"wallet-ledger/internal/repository"
	"wallet-ledger/internal/response"
	"wallet-ledger/internal/usecase/banking"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type linkAccountRequest struct {
	UserID            string `json:"user_id"`
	AccountNumber     string `json:"account_number"`
	RoutingNumber     string `json:"routing_number"`
	AccountType       string `json:"account_type"`
	BankName          string `json:"bank_name"`
	AccountHolderName string `json:"account_holder_name"`
}

func LinkAccountHandler(accounts *repository.BankAccountRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req linkAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.UserID == "" || req.AccountNumber == "" || req.RoutingNumber == "" ||
			req.BankName == "" || req.AccountHolderName == "" {
			response.Error(w, http.StatusBadRequest, "missing required fields")
			return
		}
		acctType := domain.BankAccountType(req.AccountType)
		if !acctType.Valid() {
			response.Error(w, http.StatusBadRequest, "invalid account type")
			return
		}

		acct := accounts.Link(req.UserID, repository.LinkAccountInput{
			AccountNumber:     req.AccountNumber,
			RoutingNumber:     req.RoutingNumber,
			AccountType:       acctType,
			BankName:          req.BankName,
			AccountHolderName: req.AccountHolderName,
		})
		response.JSONMessage(w, http.StatusOK, "Bank account linked successfully",
			map[string]interface{}{"bank_account": acct})
	}
}

func ListAccountsHandler(accounts *repository.BankAccountRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		list := accounts.List(userID)
		response.JSON(w, http.StatusOK, map[string]interface{}{
			"user_id":  userID,
			"accounts": list,
			"count":    len(list),
		})
	}
}

func RemoveAccountHandler(accounts *repository.BankAccountRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		accountID := chi.URLParam(r, "accountID")
		if err := accounts.Remove(userID, accountID); err != nil {
			respondDomainError(w, err)
			return
		}
		response.JSONMessage(w, http.StatusOK, "Bank account removed successfully", nil)
	}
}

func VerifyAccountHandler(accounts *repository.BankAccountRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		accountID := chi.URLParam(r, "accountID")
		if err := accounts.Verify(userID, accountID); err != nil {
			respondDomainError(w, err)
			return
		}
		response.JSONMessage(w, http.StatusOK, "Bank account verified successfully", nil)
	}
}

func SetPrimaryAccountHandler(accounts *repository.BankAccountRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		accountID := chi.URLParam(r, "accountID")
		if err := accounts.SetPrimary(userID, accountID); err != nil {
			respondDomainError(w, err)
			return
		}
		response.JSONMessage(w, http.StatusOK, "Primary account updated", nil)
	}
}

type bankTransferRequest struct {
	UserID        string          `json:"user_id"`
	BankAccountID string          `json:"bank_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Rail          string          `json:"rail"`
	Description   string          `json:"description"`
}

func BankDepositHandler(uc *banking.Service) http.HandlerFunc {
	return bankTransferHandler(uc, domain.BankTransferDeposit)
}

func BankWithdrawHandler(uc *banking.Service) http.HandlerFunc {
	return bankTransferHandler(uc, domain.BankTransferWithdrawal)
}

func bankTransferHandler(uc *banking.Service, kind domain.BankTransferType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bankTransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.UserID == "" || req.BankAccountID == "" {
			response.Error(w, http.StatusBadRequest, "missing required fields")
			return
		}

		transfer := domain.BankTransferRequest{
			UserID:        req.UserID,
			BankAccountID: req.BankAccountID,
			Amount:        req.Amount,
			Type:          kind,
			Rail:          domain.TransferRail(req.Rail),
			Description:   req.Description,
		}

		var (
			tx  *domain.BankTransaction
			err error
		)
		if kind == domain.BankTransferDeposit {
			tx, err = uc.Deposit(r.Context(), transfer)
		} else {
			tx, err = uc.Withdraw(r.Context(), transfer)
		}
		if err != nil {
			respondDomainError(w, err)
			return
		}

		verb := "Deposit"
		if kind == domain.BankTransferWithdrawal {
			verb = "Withdrawal"
		}
		response.JSONMessage(w, http.StatusOK,
			fmt.Sprintf("%s of $%s initiated via %s", verb, req.Amount, tx.Rail),
			map[string]interface{}{"transaction": tx})
	}
}

func BankTransactionsHandler(uc *banking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		txns := uc.Transactions(userID, limit)
		response.JSON(w, http.StatusOK, map[string]interface{}{
			"user_id":      userID,
			"transactions": txns,
			"count":        len(txns),
		})
	}
}
