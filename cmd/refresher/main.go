// Command refresher runs the dataset refresh worker. It hosts the Temporal
// workflow and its activities, and listens on NATS for refresh requests
// published by the API, starting one workflow execution per request.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/mutcampus/roomfinder/internal/adapters/nats"
	"github.com/mutcampus/roomfinder/internal/adapters/postgres"
	"github.com/mutcampus/roomfinder/internal/adapters/valkey"
	"github.com/mutcampus/roomfinder/internal/pkg/config"
	"github.com/mutcampus/roomfinder/internal/pkg/logging"
	"github.com/mutcampus/roomfinder/internal/workflows"
)

const taskQueue = "dataset-refresh-queue"

func main() {
	cfg, err := config.Load("roomfinder-refresher")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("info", "json")

	ctx := context.Background()

	temporalAddr := os.Getenv("TEMPORAL_ADDRESS")
	if temporalAddr == "" {
		temporalAddr = "localhost:7233"
	}
	c, err := client.Dial(client.Options{HostPort: temporalAddr})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	activities := &workflows.RefreshActivities{}

	if db, err := postgres.New(ctx, cfg.Database.DSN()); err != nil {
		slog.Warn("database unavailable, refresh will skip mirroring", "error", err)
	} else {
		defer db.Close()
		activities.Rooms = postgres.NewRoomRepo(db)
		activities.Boundary = postgres.NewBoundaryRepo(db)
	}

	if cache, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, refresh will skip cache invalidation", "error", err)
	} else {
		defer cache.Close()
		activities.Cache = cache
	}

	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats publisher unavailable", "error", err)
	} else {
		defer pub.Close()
		activities.Events = pub
	}

	w := worker.New(c, taskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.DatasetRefreshWorkflow)
	w.RegisterActivity(activities)

	// Relay NATS refresh requests into workflow executions.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats subscriber unavailable, refreshes must be started via temporal directly", "error", err)
	} else {
		defer sub.Close()
		err := sub.SubscribeRefreshRequests(ctx, func(ctx context.Context, reason string) error {
			opts := client.StartWorkflowOptions{
				ID:        fmt.Sprintf("dataset-refresh-%d", time.Now().UnixNano()),
				TaskQueue: taskQueue,
			}
			input := workflows.RefreshInput{
				Reason:       reason,
				RoomsPath:    cfg.Data.RoomsPath,
				BoundaryPath: cfg.Data.BoundaryPath,
			}
			run, err := c.ExecuteWorkflow(ctx, opts, workflows.DatasetRefreshWorkflow, input)
			if err != nil {
				return fmt.Errorf("start refresh workflow: %w", err)
			}
			slog.Info("refresh workflow started", "workflow_id", run.GetID(), "reason", reason)
			return nil
		})
		if err != nil {
			slog.Warn("subscribe refresh requests", "error", err)
		}
	}

	slog.Info("refresher worker started", "task_queue", taskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
