package router

import (
	"wallet-ledger/internal/handler"
	"wallet-ledger/internal/rates"
	"wallet-ledger/internal/repository"
	"wallet-ledger/internal/usecase/banking"
	"wallet-ledger/internal/usecase/wallet"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func New(walletUC *wallet.Service, bankingUC *banking.Service, accounts *repository.BankAccountRepository, oracle rates.Oracle, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/wallet", func(r chi.Router) {
			r.Get("/{userID}/balance", handler.GetBalanceHandler(walletUC))
			r.Get("/{userID}/transactions", handler.GetTransactionsHandler(walletUC))
			r.Post("/{userID}/deposit", handler.AddFundsHandler(walletUC))
			r.Post("/send", handler.SendPaymentHandler(walletUC))
			r.Get("/address/{type}", handler.GenerateAddressHandler())
			r.Get("/crypto/prices", handler.CryptoPricesHandler(oracle))
		})

		r.Route("/banking", func(r chi.Router) {
			r.Post("/accounts/link", handler.LinkAccountHandler(accounts))
			r.Get("/accounts/{userID}", handler.ListAccountsHandler(accounts))
			r.Delete("/accounts/{userID}/{accountID}", handler.RemoveAccountHandler(accounts))
			r.Put("/accounts/{userID}/{accountID}/primary", handler.SetPrimaryAccountHandler(accounts))
			r.Post("/accounts/{userID}/{accountID}/verify", handler.VerifyAccountHandler(accounts))
			r.Post("/deposit", handler.BankDepositHandler(bankingUC))
			r.Post("/withdraw", handler.BankWithdrawHandler(bankingUC))
			r.Get("/transactions/{userID}", handler.BankTransactionsHandler(bankingUC))
		})
	})

	r.Get("/ws/wallet/{userID}", handler.WalletWSHandler(walletUC))

	return r
}
