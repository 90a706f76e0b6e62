package repositories

import (
	"context"

	"podium/internal/domain/models"
)

// ReportRepository defines data access operations for moderation reports
type ReportRepository interface {
	// Create inserts a report. A second report of the same item by the same
	// reporter fails with domain.ErrDuplicateReport.
	Create(ctx context.Context, report *models.Report) error
}
