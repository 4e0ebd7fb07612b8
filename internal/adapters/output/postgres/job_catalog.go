package postgres

import (
	"context"
	"fmt"

	"jobmatch-assistant/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const insertBatchSize = 100

// JobCatalog struct - Secondary/Driven adapter serving the job catalog from PostgreSQL
type JobCatalog struct {
	dbGorm *gorm.DB
}

// NewJobCatalog func - Creates new PostgreSQL job catalog
func NewJobCatalog(dbGorm *gorm.DB) *JobCatalog {
	return &JobCatalog{dbGorm: dbGorm}
}

// Migrate creates or updates the jobs table
func (c *JobCatalog) Migrate() error {
	logrus.Info("Migrate database ...")
	if err := c.dbGorm.AutoMigrate(&domain.Job{}); err != nil {
		return fmt.Errorf("migrate jobs: %w", err)
	}
	return nil
}

// Jobs returns every job ordered by catalog position
func (c *JobCatalog) Jobs(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	if err := c.dbGorm.WithContext(ctx).Order("position").Order("job_id").Find(&jobs).Error; err != nil {
		logrus.Errorln(err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return jobs, nil
}

// ReplaceAll swaps the whole catalog for jobs in one transaction. Positions follow slice order.
func (c *JobCatalog) ReplaceAll(ctx context.Context, jobs []domain.Job) error {
	rows := make([]domain.Job, len(jobs))
	copy(rows, jobs)
	for i := range rows {
		rows[i].Position = i
	}

	err := c.dbGorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Job{}).Error; err != nil {
			return fmt.Errorf("delete jobs: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert jobs: %w", err)
		}
		return nil
	})
	if err != nil {
		logrus.Errorln(err)
		return err
	}

	logrus.Infof("Replaced job catalog with %d jobs", len(rows))
	return nil
}
