package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// The repositories are bound to the connection pool; TxManager hands out transaction-bound ones.
type RepositoryProvider struct {
	TxManager     TransactionManager
	AccountRepo   AccountRepositoryFacade
	JournalRepo   JournalRepositoryFacade
	LedgerRepo    LedgerRepositoryFacade
	ReportingRepo ReportingRepository
	EntryLocker   EntryLocker
}
