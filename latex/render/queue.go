// queue.go -
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
// Copyright (C) 2026  The nobby authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package render

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

const queueLength = 16

// Queue runs fragment renders on a bounded pool of workers.  The first
// failing render cancels all jobs which have not finished yet.
type Queue struct {
	renderer Renderer
	preamble string
	opt      *Options
	log      *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc

	jobs    chan *jobSpec
	workers *sync.WaitGroup
	done    chan struct{}

	mu     sync.Mutex
	failed *Failure
}

// Result is the outcome of a single render job.
type Result struct {
	Fragment *Fragment
	Image    *Image
	Err      error
}

// Failure describes the first render job which failed.
type Failure struct {
	Fragment *Fragment
	Err      error
}

func (f *Failure) Error() string {
	return f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewQueue creates a new rendering queue.  All fragments are rendered
// with the given preamble and options, using at most maxWorkers
// concurrent calls to r.
func NewQueue(ctx context.Context, r Renderer, preamble string, opt *Options,
	maxWorkers int, log *zap.SugaredLogger) *Queue {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	ctx, cancel := context.WithCancel(ctx)
	q := &Queue{
		renderer: r,
		preamble: preamble,
		opt:      opt,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		jobs:     make(chan *jobSpec, queueLength),
		workers:  &sync.WaitGroup{},
		done:     make(chan struct{}),
	}
	go q.scheduler(maxWorkers)
	return q
}

// Submit adds a new rendering job to the queue.  The result can be
// read from the returned channel, which receives exactly one value.
func (q *Queue) Submit(frag *Fragment) <-chan *Result {
	c := make(chan *Result, 1)
	q.jobs <- &jobSpec{Fragment: frag, Result: c}
	return c
}

// Finish must be called after the last job has been submitted.  The
// function waits until all jobs are done and returns the first
// failure, if any, as a *Failure.
func (q *Queue) Finish() error {
	close(q.jobs)
	<-q.done
	q.cancel()

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failed != nil {
		return q.failed
	}
	return nil
}

func (q *Queue) scheduler(maxWorkers int) {
	workers := make(chan int, maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		workers <- i
	}

	for job := range q.jobs {
		worker := <-workers
		q.workers.Add(1)
		go func(job *jobSpec) {
			res := q.process(job.Fragment, worker)
			workers <- worker
			job.Result <- res
			q.workers.Done()
		}(job)
	}
	q.workers.Wait()
	close(q.done)
}

func (q *Queue) process(frag *Fragment, worker int) *Result {
	res := &Result{Fragment: frag}
	if err := q.ctx.Err(); err != nil {
		res.Err = err
		q.fail(frag, err)
		return res
	}

	q.log.Debugw("rendering fragment",
		"id", frag.ID, "worker", worker, "source", abbrev(frag.Source))
	res.Image, res.Err = q.renderer.Render(q.ctx, q.preamble, frag, q.opt)
	if res.Err == nil && res.Image == nil {
		res.Err = errors.New("renderer returned no image")
	}
	if res.Err != nil {
		q.fail(frag, res.Err)
	}
	return res
}

func (q *Queue) fail(frag *Fragment, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failed == nil ||
		errors.Is(q.failed.Err, context.Canceled) && !errors.Is(err, context.Canceled) {
		q.failed = &Failure{Fragment: frag, Err: err}
	}
	q.cancel()
}

type jobSpec struct {
	Fragment *Fragment
	Result   chan<- *Result
}

func abbrev(s string) string {
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}
