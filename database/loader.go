package database

import (
	"context"
	"fmt"

	"ledger-backend/reports"

	"gorm.io/gorm"
)

// ReportLoader reads report datasets straight from the database.
type ReportLoader struct {
	DB *gorm.DB
}

func (l ReportLoader) LoadDataset(ctx context.Context, ownerID string, w reports.Window) (reports.Dataset, error) {
	var ds reports.Dataset
	db := l.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Session(&gorm.Session{})
	// End is a calendar day; include all of it.
	until := w.End.AddDate(0, 0, 1)

	if err := db.Where("date >= ? AND date < ?", w.Start, until).
		Order("date").Find(&ds.Transactions).Error; err != nil {
		return ds, fmt.Errorf("load transactions: %w", err)
	}
	if err := db.Where("due_date >= ? AND due_date < ?", w.Start, until).
		Order("due_date").Find(&ds.Bills).Error; err != nil {
		return ds, fmt.Errorf("load bills: %w", err)
	}
	if err := db.Where("issue_date >= ?", w.Start).
		Order("issue_date").Find(&ds.Receivables).Error; err != nil {
		return ds, fmt.Errorf("load receivables: %w", err)
	}
	return ds, nil
}
