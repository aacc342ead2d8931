package database

import (
	"fmt"

	"ledger-backend/models"

	"gorm.io/gorm"
)

// Migrate applies idempotent schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - Money column types (NUMERIC(12,2)) on postgres
// - Expression index for customer search
// - CHECK constraints on postgres
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Transaction{},
		&models.Bill{},
		&models.Receivable{},
		&models.Payment{},
		&models.Customer{},
		&models.Report{},
		&models.IdempotencyKey{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	if dialect(db) != "postgres" {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		alters := []string{
			`ALTER TABLE transactions        ALTER COLUMN amount           TYPE numeric(12,2)`,
			`ALTER TABLE transactions        ALTER COLUMN fee_amount       TYPE numeric(12,2)`,
			`ALTER TABLE transactions        ALTER COLUMN net_amount       TYPE numeric(12,2)`,
			`ALTER TABLE bills               ALTER COLUMN final_amount     TYPE numeric(12,2)`,
			`ALTER TABLE receivables         ALTER COLUMN paid_amount      TYPE numeric(12,2)`,
			`ALTER TABLE receivables         ALTER COLUMN remaining_amount TYPE numeric(12,2)`,
			`ALTER TABLE receivable_payments ALTER COLUMN amount           TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_receivables_customer_lower ON receivables (owner_id, LOWER(customer_name))`,
			`CREATE INDEX IF NOT EXISTS idx_bills_owner_status ON bills (owner_id, status)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		checks := map[string]string{
			"chk_payments_amount_pos":         `ALTER TABLE receivable_payments ADD CONSTRAINT chk_payments_amount_pos CHECK (amount > 0)`,
			"chk_receivables_remaining_nonneg": `ALTER TABLE receivables ADD CONSTRAINT chk_receivables_remaining_nonneg CHECK (remaining_amount >= 0)`,
			"chk_transactions_amount_nonneg":  `ALTER TABLE transactions ADD CONSTRAINT chk_transactions_amount_nonneg CHECK (amount >= 0)`,
		}
		for name, stmt := range checks {
			guarded := fmt.Sprintf(`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
		%s;
	END IF;
END $$;`, name, stmt)
			if err := tx.Exec(guarded).Error; err != nil {
				return fmt.Errorf("check constraint migration failed on %s: %w", name, err)
			}
		}
		return nil
	})
}
