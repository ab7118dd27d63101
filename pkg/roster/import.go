package roster

import (
	"context"
	"fmt"

	"github.com/Alarion239/studentrecords/internal/logger"
	"github.com/Alarion239/studentrecords/models/records"
)

type ImportResult struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

// ImportStudents creates one row per entry. A failed row is logged and
// skipped; the import stops only when ctx is done.
func (s *Service) ImportStudents(ctx context.Context, rows []records.StudentFields) (ImportResult, error) {
	var res ImportResult
	for i, fields := range rows {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("import stopped after %d rows: %w", i, err)
		}

		if _, err := s.AddNewRow(ctx, fields); err != nil {
			logger.LogWarn("Skipping row during import", "row", i+1, "error", err)
			res.Failed++
			continue
		}
		res.Imported++
	}

	logger.LogInfo("Import finished", "imported", res.Imported, "failed", res.Failed)
	return res, nil
}
