package schedule

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/onfuse/planner/internal/model"
)

// BulkError reports one failed item of a bulk assignment by its input
// position.
type BulkError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BulkResult is the outcome of a bulk assignment. Partial success is the
// contract: valid items are created even when others fail.
type BulkResult struct {
	CreatedCount int         `json:"created_count"`
	CreatedIDs   []string    `json:"created_ids"`
	Errors       []BulkError `json:"errors,omitempty"`
}

// BulkAssign creates each booking independently, collecting per-item
// successes and failures instead of aborting the batch on first error.
func (s *Service) BulkAssign(ctx context.Context, items []model.Booking) (*BulkResult, error) {
	result := &BulkResult{}

	for i, item := range items {
		created, err := s.CreateBooking(ctx, item)
		if err != nil {
			result.Errors = append(result.Errors, BulkError{Index: i, Error: err.Error()})
			continue
		}
		result.CreatedCount++
		result.CreatedIDs = append(result.CreatedIDs, created.ID)
	}

	s.log.WithFields(logrus.Fields{
		"created": result.CreatedCount,
		"failed":  len(result.Errors),
	}).Info("bulk assignment applied")

	return result, nil
}
