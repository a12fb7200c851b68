package mapping

import (
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/models"
)

// ToDomainLedgerRow converts a model LedgerRow to a domain LedgerRow
func ToDomainLedgerRow(m models.LedgerRow) domain.LedgerRow {
	return domain.LedgerRow{
		LedgerID:    m.LedgerID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		AccountCode: deref(m.AccountCode),
		AccountName: deref(m.AccountName),
		EntryNo:     m.EntryNo,
		EntryDate:   m.EntryDate,
		VoucherType: domain.VoucherType(m.VoucherType),
		Particulars: m.Particulars,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Balance:     m.Balance,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomainLedgerRowSlice converts model ledger rows to domain ledger rows
func ToDomainLedgerRowSlice(ms []models.LedgerRow) []domain.LedgerRow {
	ds := make([]domain.LedgerRow, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerRow(m)
	}
	return ds
}

// ToDomainAccountTotalSlice converts aggregate rows to domain totals
func ToDomainAccountTotalSlice(ms []models.AccountTotal) []domain.AccountTotal {
	ds := make([]domain.AccountTotal, len(ms))
	for i, m := range ms {
		ds[i] = domain.AccountTotal{
			AccountID:   m.AccountID,
			Code:        m.Code,
			Name:        m.Name,
			AccountType: domain.AccountType(m.AccountType),
			Debit:       m.Debit,
			Credit:      m.Credit,
		}
	}
	return ds
}
