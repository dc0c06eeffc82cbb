package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// RefreshInput is the input for the dataset refresh workflow.
type RefreshInput struct {
	Reason       string
	RoomsPath    string
	BoundaryPath string
}

// RefreshResult summarizes a completed refresh.
type RefreshResult struct {
	Rooms            int
	BoundaryVertices int
}

// DatasetRefreshWorkflow reloads both campus datasets from their source
// files, mirrors them into the database, invalidates search caches, and
// broadcasts the refresh. Serving processes pick up the new data on restart;
// the mirror is for operational stats and offline inspection.
func DatasetRefreshWorkflow(ctx workflow.Context, input RefreshInput) (RefreshResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting dataset refresh", "reason", input.Reason)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 60 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var result RefreshResult

	// Step 1: reload and mirror the room directory
	if err := workflow.ExecuteActivity(ctx, "MirrorRooms", input.RoomsPath).Get(ctx, &result.Rooms); err != nil {
		return result, err
	}

	// Step 2: reload and mirror the boundary ring
	if err := workflow.ExecuteActivity(ctx, "MirrorBoundary", input.BoundaryPath).Get(ctx, &result.BoundaryVertices); err != nil {
		return result, err
	}

	// Step 3: drop stale cached search results
	if err := workflow.ExecuteActivity(ctx, "InvalidateCaches").Get(ctx, nil); err != nil {
		logger.Warn("cache invalidation failed, caches will expire by TTL", "error", err)
	}

	// Step 4: tell connected clients
	_ = workflow.ExecuteActivity(ctx, "BroadcastRefresh", input.Reason).Get(ctx, nil)

	logger.Info("Dataset refresh complete",
		"rooms", result.Rooms, "boundary_vertices", result.BoundaryVertices)
	return result, nil
}
