package ports

import (
	"context"

	"heartdash/domain/dataset"
)

// DatasetSource loads the display dataset
type DatasetSource interface {
	Load(ctx context.Context) (*dataset.Table, error)
}
