package specification

import (
	"testing"
	"time"

	"ai-taskbot-be/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func toSQL(db *gorm.DB, specs ...Specification) string {
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		tx = tx.Model(&model.ParseLog{})
		for _, s := range specs {
			tx = s.Apply(tx)
		}
		var out []model.ParseLog
		return tx.Find(&out)
	})
}

func TestParseLogSpecifications(t *testing.T) {
	db := dryRunDB(t)

	sql := toSQL(db, ByAction{Action: "create_task"}, OrderBy{Field: "created_at", Desc: true}, Pagination{Limit: 20, Offset: 40})
	assert.Contains(t, sql, `FROM "parse_logs"`)
	assert.Contains(t, sql, "action = 'create_task'")
	assert.Contains(t, sql, "ORDER BY created_at DESC")
	assert.Contains(t, sql, "LIMIT 20")
	assert.Contains(t, sql, "OFFSET 40")

	sql = toSQL(db, ByAction{}, Pagination{})
	assert.NotContains(t, sql, "action =")
	assert.NotContains(t, sql, "LIMIT")

	sql = toSQL(db, ByUserID{UserID: "u1"}, DegradedOnly{})
	assert.Contains(t, sql, "user_id = 'u1'")
	assert.Contains(t, sql, "degraded = true")

	sql = toSQL(db, CreatedAfter{Since: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})
	assert.Contains(t, sql, "created_at >")
}
