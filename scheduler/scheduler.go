// Package scheduler provides worker pools used to run inbound handlers off
// the reader goroutine.
package scheduler

import (
	"context"
	"io"

	"github.com/panjf2000/ants"
	"github.com/pkg/errors"
)

var immediateScheduler = &immediateSchedulerImpl{}

// Do is alias of the function which will be executed in scheduler.
type Do = func(ctx context.Context)

// Scheduler is a work pool for doing something async.
type Scheduler interface {
	io.Closer
	// Do register function to do.
	Do(ctx context.Context, fn Do) error
}

// Immediate returns a scheduler running every function on the caller
// goroutine. Handlers then run one at a time in arrival order and must not
// wait for outbound calls.
func Immediate() Scheduler {
	return immediateScheduler
}

// NewElasticScheduler returns a new ElasticScheduler.
func NewElasticScheduler(size int) Scheduler {
	pool, err := ants.NewPool(size)
	if err != nil {
		panic(err)
	}
	return &elasticSchedulerImpl{
		pool: pool,
	}
}

type immediateSchedulerImpl struct {
}

func (p *immediateSchedulerImpl) Close() error {
	return nil
}

func (p *immediateSchedulerImpl) Do(ctx context.Context, fn Do) error {
	fn(ctx)
	return nil
}

type elasticSchedulerImpl struct {
	pool *ants.Pool
}

func (p *elasticSchedulerImpl) Close() error {
	return p.pool.Release()
}

func (p *elasticSchedulerImpl) Do(ctx context.Context, fn Do) error {
	err := p.pool.Submit(func() {
		fn(ctx)
	})
	if err != nil {
		return errors.Wrap(err, "submit task failed")
	}
	return nil
}
