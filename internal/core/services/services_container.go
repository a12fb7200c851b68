package services

import (
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	postingOpts := []PostingServiceOption{
		WithRetryPolicy(cfg.PostMaxAttempts, cfg.PostRetryBackoff),
	}
	if repos.EntryLocker != nil {
		postingOpts = append(postingOpts, WithEntryLocker(repos.EntryLocker, cfg.PostLockTTL))
	}

	return &portssvc.ServiceContainer{
		Account:   NewAccountService(repos.AccountRepo, repos.TxManager),
		Journal:   NewJournalService(repos.JournalRepo, repos.TxManager),
		Posting:   NewPostingService(repos.TxManager, postingOpts...),
		Ledger:    NewLedgerService(repos.LedgerRepo, repos.JournalRepo, repos.AccountRepo),
		Reporting: NewReportingService(repos.ReportingRepo),
	}
}
