package persistence

import (
	"fmt"

	"github.com/anchorage-ai/vecsync/internal/database"
)

// AutoMigrate creates or updates the ledger schema.
func AutoMigrate(db database.Database) error {
	if err := db.GORM().AutoMigrate(&LedgerModel{}); err != nil {
		return fmt.Errorf("migrate ledger schema: %w", err)
	}
	return nil
}
