package engine

import "context"

// Ticker abstracts a data source that produces one Cycle per call.
type Ticker interface {
	Tick(ctx context.Context) Cycle
}
