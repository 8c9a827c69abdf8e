package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"larsbees/entities"
)

type MigrationResult struct {
	ColumnsAdded      int
	RowsDefaulted     int64
	ActionsClassified int64
	CalendarTokens    int64
}

type columnPatch struct {
	Table   string
	Column  string
	Def     string
	Default string // value written over NULLs left by older versions
}

// pendingColumns are the site fields added after the first release.
var pendingColumns = []columnPatch{
	{"sites", "landowner_name", "TEXT", ""},
	{"sites", "landowner_phone", "TEXT", ""},
	{"sites", "landowner_email", "TEXT", ""},
	{"sites", "landowner_address", "TEXT", ""},
	{"sites", "functional_classification", "TEXT DEFAULT 'production'", "'production'"},
	{"sites", "seasonal_classification", "TEXT DEFAULT 'summer'", "'summer'"},
	{"sites", "access_type", "TEXT DEFAULT 'all_weather'", "'all_weather'"},
	{"sites", "contact_before_visit", "NUMERIC DEFAULT 0", "0"},
	{"sites", "is_quarantine", "NUMERIC DEFAULT 0", "0"},
	{"sites", "single_brood_boxes", "INTEGER DEFAULT 0", "0"},
	{"sites", "double_brood_boxes", "INTEGER DEFAULT 0", "0"},
	{"sites", "nucs", "INTEGER DEFAULT 0", "0"},
	{"sites", "dead_hives", "INTEGER DEFAULT 0", "0"},
	{"sites", "top_splits", "INTEGER DEFAULT 0", "0"},
	{"sites", "strong_hives", "INTEGER DEFAULT 0", "0"},
	{"sites", "medium_hives", "INTEGER DEFAULT 0", "0"},
	{"sites", "weak_hives", "INTEGER DEFAULT 0", "0"},
	{"sites", "site_strength", "TEXT DEFAULT 'medium'", "'medium'"},
	{"hive_actions", "kind", "TEXT", ""}, // left NULL so backfill classifies legacy rows
	{"users", "calendar_token", "TEXT", ""},
}

func patchColumns(ctx context.Context, db *gorm.DB, log *zap.Logger, res *MigrationResult) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range pendingColumns {
			ok, err := tableExists(tx, m.Table)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			has, err := columnExists(tx, m.Table, m.Column)
			if err != nil {
				return err
			}
			if !has {
				q := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
				if err := tx.Exec(q).Error; err != nil {
					return fmt.Errorf("add %s.%s: %w", m.Table, m.Column, err)
				}
				log.Info("column added", zap.String("table", m.Table), zap.String("column", m.Column))
				res.ColumnsAdded++
			}
			if m.Default == "" {
				continue
			}
			r := tx.Exec(fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s IS NULL", m.Table, m.Column, m.Default, m.Column))
			if r.Error != nil {
				return fmt.Errorf("default %s.%s: %w", m.Table, m.Column, r.Error)
			}
			res.RowsDefaulted += r.RowsAffected
		}

		// site_type was renamed to seasonal_classification
		if legacy, err := columnExists(tx, "sites", "site_type"); err != nil {
			return err
		} else if legacy {
			r := tx.Exec(`UPDATE sites SET seasonal_classification = site_type
				WHERE site_type IS NOT NULL AND site_type <> '' AND seasonal_classification = 'summer'`)
			if r.Error != nil {
				return fmt.Errorf("copy site_type: %w", r.Error)
			}
			res.RowsDefaulted += r.RowsAffected
		}
		return nil
	})
}

// backfill fills values that cannot be expressed as a column default.
func backfill(ctx context.Context, db *gorm.DB, res *MigrationResult) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		type row struct {
			ActionID uint
			TaskName string
			Category sql.NullString
		}
		var rows []row
		err := tx.Table("hive_actions").
			Select("hive_actions.action_id, hive_actions.task_name, task_types.category").
			Joins("LEFT JOIN task_types ON task_types.task_type_id = hive_actions.task_type_id").
			Where("hive_actions.kind IS NULL OR hive_actions.kind = ''").
			Scan(&rows).Error
		if err != nil {
			return err
		}
		for _, r := range rows {
			kind := entities.ClassifyAction(r.TaskName, r.Category.String)
			if err := tx.Model(&entities.HiveAction{}).Where("action_id = ?", r.ActionID).
				Update("kind", kind).Error; err != nil {
				return err
			}
			if kind != entities.KindOther {
				res.ActionsClassified++
			}
		}

		var users []entities.User
		if err := tx.Where("calendar_token IS NULL OR calendar_token = ''").Find(&users).Error; err != nil {
			return err
		}
		for _, u := range users {
			if err := tx.Model(&entities.User{}).Where("user_id = ?", u.UserID).
				Update("calendar_token", uuid.NewString()).Error; err != nil {
				return err
			}
			res.CalendarTokens++
		}
		return nil
	})
}

func tableExists(db *gorm.DB, table string) (bool, error) {
	var n int64
	err := db.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n).Error
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return n > 0, nil
}

func columnExists(db *gorm.DB, table, column string) (bool, error) {
	type colInfo struct {
		Cid       int
		Name      string
		Type      string
		NotNull   int
		DfltValue sql.NullString
		Pk        int
	}
	var cols []colInfo
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info(%s)", table)).Scan(&cols).Error; err != nil {
		return false, fmt.Errorf("table_info %s: %w", table, err)
	}
	for _, c := range cols {
		if c.Name == column {
			return true, nil
		}
	}
	return false, nil
}
