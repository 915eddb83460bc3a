package postgres

import (
	"database/sql"
	"fmt"

	"laundry/internal/adapters/out/postgres/feerepo"
	"laundry/internal/adapters/out/postgres/listingrepo"
	"laundry/internal/adapters/out/postgres/orderrepo"
	"laundry/internal/adapters/out/postgres/outboxrepo"
	"laundry/internal/adapters/out/postgres/partnerrepo"
	"laundry/internal/adapters/out/postgres/paymentrepo"
	"laundry/internal/adapters/out/postgres/payoutrepo"
	"laundry/internal/adapters/out/postgres/reviewrepo"
	"laundry/internal/adapters/out/postgres/voucherrepo"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects gorm through lib/pq, so driver errors surface as *pq.Error.
func Open(dsn string, gormLogger logger.Interface) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if gormLogger == nil {
		gormLogger = logger.Discard
	}

	db, err := gorm.Open(gorm_postgres.New(gorm_postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return db, nil
}

// Models lists every table the marketplace owns, in dependency order.
func Models() []any {
	return []any{
		&partnerrepo.PartnerDTO{},
		&listingrepo.ListingDTO{},
		&voucherrepo.VoucherDTO{},
		&feerepo.CODRateDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.StatusHistoryDTO{},
		&paymentrepo.PaymentDTO{},
		&payoutrepo.PayoutDTO{},
		&reviewrepo.ReviewDTO{},
		&outboxrepo.MessageDTO{},
	}
}

// Migrate creates or alters the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
