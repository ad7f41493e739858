package ports

import (
	"context"

	"heartdash/domain/payload"
	"heartdash/domain/prediction"
)

// Predictor sends a payload to the prediction service and returns its label
type Predictor interface {
	Predict(ctx context.Context, p payload.Payload) (prediction.Label, error)
}
