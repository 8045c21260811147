package datainfra

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-insurance-cache/cache"
)

// NewDB wraps an opened *sql.DB with the bun SQLite dialect. The caller owns
// the connection; DSN handling and pooling stay outside this package.
func NewDB(sqlDB *sql.DB) *bun.DB {
	return bun.NewDB(sqlDB, sqlitedialect.New())
}

// CreateSchema creates every table this package reads or writes. It is meant
// for tests and local bootstrapping against an empty SQLite database;
// production schemas are managed by migrations.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*userRow)(nil),
		(*clientRow)(nil),
		(*policyRow)(nil),
		(*stateRow)(nil),
		(*policyTypeRow)(nil),
		(*policyStatusRow)(nil),
		(*logRow)(nil),
	}
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// businessZone is the timezone audit timestamps are recorded in. The back
// office operates out of Mexico City.
const businessZone = "America/Mexico_City"

var cdmx = func() *time.Location {
	loc, err := time.LoadLocation(businessZone)
	if err != nil {
		return time.UTC
	}
	return loc
}()

// stampIn reads the clock and shifts the instant into the business timezone.
func stampIn(clock cache.Clock) time.Time {
	return clock.Now().In(cdmx)
}
