package database

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// Secondary indexes that are not expressed in model tags.
var secondaryIndexes = []index{
	// Task list filters
	{"tasks", "idx_tasks_status", "status"},
	{"tasks", "idx_tasks_due_date", "due_date"},

	// Review queues
	{"work_reports", "idx_work_reports_status", "status"},
	{"access_requests", "idx_access_requests_status", "status"},

	// Attendance history by day
	{"attendance", "idx_attendance_date", "date"},
}

// AddIndexes creates the secondary indexes that do not exist yet.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range secondaryIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debugf("Index %s already exists, skipping", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return errors.Wrapf(err, "failed to create index %s", idx.name)
		}

		log.Infof("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
