package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"larsbees/entities"
)

// Models lists every table, parents first.
var Models = []any{
	&entities.User{},
	&entities.Site{},
	&entities.IndividualHive{},
	&entities.TaskType{},
	&entities.HiveAction{},
	&entities.DiseaseReport{},
	&entities.TaskTemplate{},
	&entities.ScheduledTask{},
	&entities.TaskAssignment{},
}

// Open connects to the sqlite file at path with foreign keys enforced.
func Open(path string) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "_pragma=foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

// OpenSQLite opens the database and brings the schema and seed data up to
// date. Column patches run before AutoMigrate so legacy rows get defaults.
func OpenSQLite(ctx context.Context, path string, log *zap.Logger) (*gorm.DB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := Migrate(ctx, db, log); err != nil {
		return nil, err
	}
	if err := Seed(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate patches legacy columns, runs AutoMigrate, then backfills derived data.
func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger) (*MigrationResult, error) {
	res := &MigrationResult{}
	if err := patchColumns(ctx, db, log, res); err != nil {
		return nil, fmt.Errorf("patch columns: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	if err := backfill(ctx, db, res); err != nil {
		return nil, fmt.Errorf("backfill: %w", err)
	}
	log.Info("schema migrated",
		zap.Int("columns_added", res.ColumnsAdded),
		zap.Int64("rows_defaulted", res.RowsDefaulted),
		zap.Int64("actions_classified", res.ActionsClassified),
		zap.Int64("calendar_tokens", res.CalendarTokens))
	return res, nil
}
