package grade

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type (
	// BatchRow is one spreadsheet row queued for upload.
	BatchRow struct {
		Line  int      `json:"line"`
		Grade NewGrade `json:"grade"`
	}

	// BatchSkip records a row dropped before any ledger call.
	BatchSkip struct {
		Line   int    `json:"line"`
		Reason string `json:"reason"`
	}

	// BatchFailure records the first (and only) write failure of a batch run.
	BatchFailure struct {
		Line  int    `json:"line"`
		Error string `json:"error"`
	}

	// BatchReport says precisely which rows succeeded before the first
	// failure; there is no implicit rollback of confirmed writes.
	BatchReport struct {
		Succeeded []Grade       `json:"succeeded"`
		Skipped   []BatchSkip   `json:"skipped"`
		Failed    *BatchFailure `json:"failed,omitempty"`
	}
)

// ImportBatch submits rows strictly sequentially, awaiting each write's
// confirmation before issuing the next; the ledger does not guarantee ordering
// across concurrently pending writes from the same caller. Rows failing shape
// validation are skipped, not fatal to the batch. A ledger failure stops the
// run and is reported with the rows already confirmed.
func (svc *Service) ImportBatch(ctx context.Context, validate *validator.Validate, rows []BatchRow, skipped []BatchSkip) BatchReport {
	report := BatchReport{
		Succeeded: make([]Grade, 0, len(rows)),
		Skipped:   append([]BatchSkip{}, skipped...),
	}
	for _, row := range rows {
		ng := row.Grade
		if err := ng.Validate(validate); err != nil {
			report.Skipped = append(report.Skipped, BatchSkip{Line: row.Line, Reason: err.Error()})
			continue
		}
		created, err := svc.Upload(ctx, ng)
		if err != nil {
			report.Failed = &BatchFailure{Line: row.Line, Error: fmt.Sprintf("%v", err)}
			break
		}
		report.Succeeded = append(report.Succeeded, created)
	}
	return report
}
