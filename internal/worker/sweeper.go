package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/aya-loyalty/aya-api/internal/config"
	"github.com/aya-loyalty/aya-api/internal/domain"
)

const TaskSweepExpiredTokens = "exchange:sweep"

type TokenSweeper interface {
	SweepExpiredTokens(ctx context.Context) (domain.SweepReport, error)
}

// Sweeper runs the periodic reclaim of expired exchange tokens on a
// Redis-backed asynq server plus scheduler pair.
type Sweeper struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	schedule  string
}

func NewSweeper(conf *config.RedisConfig, schedule string, svc TokenSweeper) *Sweeper {
	redisOpt := asynq.RedisClientOpt{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			zap.L().Error("sweep task failed", zap.String("task_type", task.Type()), zap.Error(err))
		}),
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSweepExpiredTokens, func(ctx context.Context, t *asynq.Task) error {
		report, err := svc.SweepExpiredTokens(ctx)
		if err != nil {
			return fmt.Errorf("svc.SweepExpiredTokens -> %w", err)
		}

		zap.L().Info("token sweep completed",
			zap.Int("tokens_reclaimed", report.TokensReclaimed),
			zap.Int("users_credited", report.UsersCredited),
			zap.Int("points_restored", report.PointsRestored),
		)

		return nil
	})

	return &Sweeper{
		server:    server,
		scheduler: scheduler,
		mux:       mux,
		schedule:  schedule,
	}
}

// Start registers the periodic sweep entry and launches the worker and
// scheduler in the background.
func (s *Sweeper) Start() error {
	task := asynq.NewTask(TaskSweepExpiredTokens, nil)
	if _, err := s.scheduler.Register(s.schedule, task); err != nil {
		return fmt.Errorf("s.scheduler.Register -> %w", err)
	}

	if err := s.server.Start(s.mux); err != nil {
		return fmt.Errorf("s.server.Start -> %w", err)
	}

	if err := s.scheduler.Start(); err != nil {
		s.server.Shutdown()
		return fmt.Errorf("s.scheduler.Start -> %w", err)
	}

	zap.L().Info("token sweeper started", zap.String("schedule", s.schedule))

	return nil
}

func (s *Sweeper) Shutdown() {
	s.scheduler.Shutdown()
	s.server.Shutdown()
}
