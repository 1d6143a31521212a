package server

import (
	"context"
	"net/http"
	"time"

	"wallet-ledger/internal/config"
	"wallet-ledger/internal/rates"
	"wallet-ledger/internal/repository"
	"wallet-ledger/internal/router"
	"wallet-ledger/internal/usecase/banking"
	"wallet-ledger/internal/usecase/wallet"
	"wallet-ledger/internal/worker"

	"go.uber.org/zap"
)

type Server struct {
	httpServer *http.Server
	sched      *worker.SettlementTimer
	log        *zap.Logger
}

// New wires the whole service: one in-memory ledger owned by the server,
// usecases layered on top, settlement timers, and the chi router.
func New(cfg config.AppConfig, log *zap.Logger) *Server {
	ledger := repository.NewLedgerRepository()
	bankTxns := repository.NewBankTransactionRepository()
	accounts := repository.NewBankAccountRepository()

	notifier := wallet.NewNotifier(log)
	walletUC := wallet.New(ledger, notifier, log)

	sched := worker.NewSettlementTimer(cfg.ACHSettleDelay, cfg.WireSettleDelay, log)
	bankingUC := banking.New(bankTxns, accounts, walletUC, banking.SimulatedGateway{}, sched, log)

	r := router.New(walletUC, bankingUC, accounts, rates.NewMockOracle(), cfg.AllowedOrigins)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		sched: sched,
		log:   log,
	}
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.sched.Stop()
	return s.httpServer.Shutdown(ctx)
}
