// Package app wires configuration, metrics, logging and the search engine
// into a runnable service.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/staffalloc/config"
	"github.com/kilianp07/staffalloc/core/events"
	coremetrics "github.com/kilianp07/staffalloc/core/metrics"
	"github.com/kilianp07/staffalloc/core/model"
	"github.com/kilianp07/staffalloc/core/search"
	"github.com/kilianp07/staffalloc/infra/logger"
	"github.com/kilianp07/staffalloc/infra/metrics"
	"github.com/kilianp07/staffalloc/internal/eventbus"
)

// Service orchestrates the search engine and its observers.
type Service struct {
	Engine   *search.Engine
	progress *eventbus.TypedBus[events.Progress]
	finished *eventbus.TypedBus[events.Finished]
	log      logger.Logger
	promAddr string
}

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...logger.Option) (*Service, error) {
	opts = append([]logger.Option{logger.WithLevel(cfg.Logging.Level)}, opts...)
	logg := logger.New("service", opts...)

	sink, err := coremetrics.NewSearchSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	progress := eventbus.NewTyped[events.Progress]()
	finished := eventbus.NewTyped[events.Finished]()
	engine, err := search.New(cfg.Search,
		search.WithLogger(logger.New("search", opts...)),
		search.WithSink(sink),
		search.WithProgressBus(progress),
		search.WithFinishedBus(finished),
	)
	if err != nil {
		progress.Close()
		finished.Close()
		return nil, err
	}
	return &Service{
		Engine:   engine,
		progress: progress,
		finished: finished,
		log:      logg,
		promAddr: cfg.Metrics.Addr,
	}, nil
}

// Progress returns the bus receiving one event per search iteration.
func (s *Service) Progress() *eventbus.TypedBus[events.Progress] { return s.progress }

// Finished returns the bus receiving the termination event of each run.
func (s *Service) Finished() *eventbus.TypedBus[events.Finished] { return s.finished }

// Run searches from initial and blocks until the run terminates. The
// metrics endpoint, when configured, is served for the duration of the run.
func (s *Service) Run(ctx context.Context, ds *model.Dataset, initial model.Assignment) (search.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if s.promAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metrics.StartPromServer(ctx, s.promAddr, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	sub := s.progress.Subscribe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for p := range sub {
			s.log.Debugw("progress", map[string]any{
				"run":        p.RunID,
				"iteration":  p.Iteration,
				"planned":    p.Planned,
				"evaluation": p.Evaluation,
				"best":       p.Best,
			})
		}
	}()

	res, err := s.Engine.Run(ctx, ds, initial)
	s.progress.Unsubscribe(sub)
	cancel()
	wg.Wait()
	return res, err
}

// Diagnose explains the evaluation of an assignment under the configured
// objective and constraints.
func (s *Service) Diagnose(ds *model.Dataset, a model.Assignment) search.Diagnosis {
	return s.Engine.Diagnose(ds.Normalize(a), ds)
}

// Close releases the event buses.
func (s *Service) Close() error {
	s.progress.Close()
	s.finished.Close()
	return nil
}
