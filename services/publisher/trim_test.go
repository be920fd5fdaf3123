package publisher

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingPublisher struct {
	trims   atomic.Int64
	trimErr error
}

func (c *countingPublisher) Publish(string, []byte) error { return nil }
func (c *countingPublisher) Close() error                 { return nil }

func (c *countingPublisher) TrimStreams() error {
	c.trims.Add(1)
	return c.trimErr
}

func TestStartTrimLoopTrimsPeriodically(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := &countingPublisher{}
	StartTrimLoop(ctx, pub, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return pub.trims.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestStartTrimLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	pub := &countingPublisher{}
	StartTrimLoop(ctx, pub, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return pub.trims.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	after := pub.trims.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, pub.trims.Load())
}

func TestStartTrimLoopSurvivesTrimError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := &countingPublisher{trimErr: errors.New("conexão perdida")}
	StartTrimLoop(ctx, pub, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return pub.trims.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}
