package interfaces

import (
	"context"

	"github.com/dataprobe/dataprobe/pkg/models"
)

// IssueSink receives issues from validators. Implementations apply the
// per-type materialization cap; RawCount always reflects the true total.
type IssueSink interface {
	Record(issue models.Issue)
	RawCount(issueType models.IssueType) int
}

// Validator is a single validation stage run by the engine. Validators emit
// issues through the sink and return an error only for genuine stage
// failures, which the engine downgrades to run warnings.
type Validator interface {
	Name() string
	Validate(ctx context.Context, dataset *models.Dataset, types map[string]models.ColumnTypeDefinition, sink IssueSink) error
}
