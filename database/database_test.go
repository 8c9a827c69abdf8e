package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"larsbees/entities"
)

func openTemp(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "bees.db")
}

func TestOpenSQLiteSeedsOnce(t *testing.T) {
	ctx := context.Background()
	path := openTemp(t)

	db, err := OpenSQLite(ctx, path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, db))

	var types, templates int64
	require.NoError(t, db.Model(&entities.TaskType{}).Count(&types).Error)
	require.NoError(t, db.Model(&entities.TaskTemplate{}).Where("is_system_template = ?", true).Count(&templates).Error)
	assert.EqualValues(t, len(DefaultTaskTypes), types)
	assert.EqualValues(t, 23, types)
	assert.EqualValues(t, 6, templates)

	var tpl entities.TaskTemplate
	require.NoError(t, db.Where("name = ?", "Feeding Round").First(&tpl).Error)
	assert.Equal(t, []int{2, 3, 9, 10, 11}, tpl.SeasonMonths)
	assert.Contains(t, tpl.SuppliesNeeded, "Sugar")
	assert.Nil(t, tpl.MinTemperature)
}

func TestMigratePatchesLegacySites(t *testing.T) {
	ctx := context.Background()
	db, err := Open(openTemp(t))
	require.NoError(t, err)

	// the first release had no classification or hive setup columns
	require.NoError(t, db.Exec(`CREATE TABLE sites (
		site_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		site_type TEXT,
		access_type TEXT)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO sites (user_id, name, site_type, access_type) VALUES (1, 'Old Orchard', 'winter', NULL)`).Error)

	res := &MigrationResult{}
	require.NoError(t, patchColumns(ctx, db, zap.NewNop(), res))
	assert.Greater(t, res.ColumnsAdded, 10)

	var row struct {
		SeasonalClassification string
		AccessType             string
		StrongHives            int
		SiteStrength           string
	}
	require.NoError(t, db.Raw(`SELECT seasonal_classification, access_type, strong_hives, site_strength FROM sites`).Scan(&row).Error)
	assert.Equal(t, "winter", row.SeasonalClassification)
	assert.Equal(t, "all_weather", row.AccessType)
	assert.Equal(t, 0, row.StrongHives)
	assert.Equal(t, "medium", row.SiteStrength)

	again := &MigrationResult{}
	require.NoError(t, patchColumns(ctx, db, zap.NewNop(), again))
	assert.Zero(t, again.ColumnsAdded)
}

func TestBackfillClassifiesActionsAndTokens(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, openTemp(t), zap.NewNop())
	require.NoError(t, err)

	u := entities.User{Username: "old", Email: "old@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&u).Error)
	s := entities.Site{UserID: u.UserID, Name: "Hill"}
	require.NoError(t, db.Create(&s).Error)
	a := entities.HiveAction{SiteID: s.SiteID, UserID: u.UserID, TaskName: "Add Super"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Exec(`UPDATE hive_actions SET kind = NULL`).Error)

	res, err := Migrate(ctx, db, zap.NewNop())
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.ActionsClassified)
	assert.EqualValues(t, 1, res.CalendarTokens)

	var got entities.HiveAction
	require.NoError(t, db.First(&got, a.ActionID).Error)
	assert.Equal(t, entities.KindSuper, got.Kind)

	var user entities.User
	require.NoError(t, db.First(&user, u.UserID).Error)
	assert.NotEmpty(t, user.CalendarToken)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, openTemp(t), zap.NewNop())
	require.NoError(t, err)

	created, err := EnsureAdmin(ctx, db, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(ctx, db, "admin", "admin123")
	require.NoError(t, err)
	assert.False(t, created)

	var admin entities.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, admin.CanEditUsers())
}

type foreignKey struct {
	Table    string
	From     string
	To       string
	OnDelete string
}

func foreignKeys(t *testing.T, db *gorm.DB, table string) map[string]foreignKey {
	t.Helper()
	var rows []foreignKey
	require.NoError(t, db.Raw("PRAGMA foreign_key_list(" + table + ")").Scan(&rows).Error)
	out := map[string]foreignKey{}
	for _, r := range rows {
		out[r.From] = r
	}
	return out
}

func TestForeignKeysPointAtParents(t *testing.T) {
	db, err := OpenSQLite(context.Background(), openTemp(t), zap.NewNop())
	require.NoError(t, err)

	actions := foreignKeys(t, db, "hive_actions")
	assert.Equal(t, foreignKey{"sites", "site_id", "site_id", "CASCADE"}, actions["site_id"])
	assert.Equal(t, foreignKey{"individual_hives", "hive_id", "hive_id", "SET NULL"}, actions["hive_id"])
	assert.Equal(t, "users", actions["user_id"].Table)
	assert.Equal(t, "task_types", actions["task_type_id"].Table)

	assignments := foreignKeys(t, db, "task_assignments")
	assert.Equal(t, "scheduled_tasks", assignments["task_id"].Table)
	assert.Equal(t, foreignKey{"sites", "site_id", "site_id", "CASCADE"}, assignments["site_id"])
	assert.Equal(t, foreignKey{"individual_hives", "hive_id", "hive_id", "CASCADE"}, assignments["hive_id"])

	assert.Equal(t, "sites", foreignKeys(t, db, "individual_hives")["site_id"].Table)
	assert.Equal(t, "sites", foreignKeys(t, db, "disease_reports")["site_id"].Table)
	assert.Equal(t, "task_templates", foreignKeys(t, db, "scheduled_tasks")["template_id"].Table)
	assert.Equal(t, "users", foreignKeys(t, db, "sites")["user_id"].Table)

	for _, parent := range []string{"users", "task_types", "task_templates"} {
		assert.Empty(t, foreignKeys(t, db, parent), parent)
	}

	orphan := entities.HiveAction{SiteID: 9999, UserID: 9999, TaskName: "Inspection"}
	assert.Error(t, db.Omit("Site", "Hive", "User", "TaskType").Create(&orphan).Error)
}

func TestBackfillLeavesClassifiedActionsAlone(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, openTemp(t), zap.NewNop())
	require.NoError(t, err)

	u := entities.User{Username: "keeper", Email: "keeper@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&u).Error)
	s := entities.Site{UserID: u.UserID, Name: "Hill"}
	require.NoError(t, db.Create(&s).Error)
	a := entities.HiveAction{SiteID: s.SiteID, UserID: u.UserID, TaskName: "Hive Inspection", Kind: entities.KindOther}
	require.NoError(t, db.Create(&a).Error)

	res, err := Migrate(ctx, db, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, res.ActionsClassified)

	var got entities.HiveAction
	require.NoError(t, db.First(&got, a.ActionID).Error)
	assert.Equal(t, entities.KindOther, got.Kind, "a stored kind is never reclassified")
}
