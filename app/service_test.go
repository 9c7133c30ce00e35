package app

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/staffalloc/config"
	"github.com/kilianp07/staffalloc/core/factory"
	"github.com/kilianp07/staffalloc/core/model"
	"github.com/kilianp07/staffalloc/core/search"
	"github.com/kilianp07/staffalloc/infra/logger"
)

// lockedBuffer serialises writes from the search and service loggers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig() *config.Config {
	cfg := &config.Config{Search: search.DefaultConfig()}
	cfg.Search.Stop = []factory.ModuleConfig{{Type: "max_iterations", Conf: map[string]any{"limit": 20}}}
	cfg.Search.Workers = 2
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "nop"}}
	cfg.Logging.Level = "debug"
	return cfg
}

func dataset(t *testing.T) *model.Dataset {
	t.Helper()
	ds, err := model.NewDataset(
		[]model.Teacher{{ID: "ana", Priorities: map[string]int{"calc": 1}}, {ID: "bruno", Priorities: map[string]int{"geo": 1}}},
		[]model.Section{{ID: "calc", Load: 1, Active: true}, {ID: "geo", Load: 1, Active: true}},
		nil, nil, model.Assignment{})
	require.NoError(t, err)
	return ds
}

func TestService_Run(t *testing.T) {
	var buf lockedBuffer
	svc, err := New(testConfig(), logger.WithWriter(&buf))
	require.NoError(t, err)
	defer svc.Close()

	fin := svc.Finished().Subscribe()
	ds := dataset(t)
	res, err := svc.Run(context.Background(), ds, model.Assignment{})
	require.NoError(t, err)

	assert.True(t, res.State.Terminal())
	assert.GreaterOrEqual(t, res.Best.Evaluation, res.Initial.Evaluation)
	assert.True(t, res.Best.Assignment.Has("calc", "ana"))
	assert.True(t, res.Best.Assignment.Has("geo", "bruno"))

	select {
	case ev := <-fin:
		assert.Equal(t, res.RunID, ev.RunID)
		assert.Equal(t, res.Iterations, ev.Iterations)
	case <-time.After(time.Second):
		t.Fatal("no finished event")
	}
	assert.Contains(t, buf.String(), `"component":"search"`)
	assert.Contains(t, buf.String(), `"message":"progress"`)
	assert.Zero(t, svc.Progress().Subscribers())

	d := svc.Diagnose(ds, res.Best.Assignment)
	assert.True(t, d.Feasible)
	assert.Equal(t, res.Best.Evaluation, d.Evaluation)
}

func TestService_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Search.Generators = []factory.ModuleConfig{}
	_, err := New(cfg)
	assert.ErrorIs(t, err, search.ErrInvalidConfig)

	cfg = testConfig()
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "carrier-pigeon"}}
	_, err = New(cfg)
	assert.ErrorIs(t, err, factory.ErrUnknownType)
}
