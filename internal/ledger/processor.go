package ledger

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// TradeResult is what a submitted trade resolves to
type TradeResult struct {
	Confirmation *Confirmation
	Err          error
}

type tradeJob struct {
	ctx      context.Context
	userID   int64
	symbol   string
	shares   int64
	dir      Direction
	resultCh chan TradeResult
}

// Processor runs trades through a worker pool. The pool bounds how
// many trades hit the database at once; the per-user lock keeps a
// double-submitted form from racing itself before the row lock is
// even taken.
type Processor struct {
	engine  *Engine
	workers int
	queue   chan tradeJob
	stopCh  chan struct{}
	wg      sync.WaitGroup
	locks   *UserLocker
	log     zerolog.Logger
}

func NewProcessor(engine *Engine, workers int, log zerolog.Logger) *Processor {
	return &Processor{
		engine:  engine,
		workers: workers,
		queue:   make(chan tradeJob, 100),
		stopCh:  make(chan struct{}),
		locks:   NewUserLocker(),
		log:     log.With().Str("component", "processor").Logger(),
	}
}

// Start starts the worker pool
func (p *Processor) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.log.Info().Int("workers", p.workers).Msg("trade workers started")
}

// Stop gracefully stops all workers
func (p *Processor) Stop() {
	close(p.stopCh)
	p.wg.Wait()
	p.log.Info().Msg("trade processor stopped")
}

func (p *Processor) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return

		case job := <-p.queue:
			p.log.Debug().
				Int("worker", id).
				Int64("user_id", job.userID).
				Str("symbol", job.symbol).
				Int64("shares", job.shares).
				Msg("processing trade")

			p.locks.Lock(job.userID)
			conf, err := p.engine.ExecuteTrade(job.ctx, job.userID, job.symbol, job.shares, job.dir)
			p.locks.Unlock(job.userID)

			job.resultCh <- TradeResult{Confirmation: conf, Err: err}
		}
	}
}

// SubmitTrade queues a trade and waits for its result
func (p *Processor) SubmitTrade(ctx context.Context, userID int64, symbol string, shares int64, dir Direction) (*Confirmation, error) {
	resultCh := make(chan TradeResult, 1)

	p.queue <- tradeJob{
		ctx:      ctx,
		userID:   userID,
		symbol:   symbol,
		shares:   shares,
		dir:      dir,
		resultCh: resultCh,
	}

	res := <-resultCh
	return res.Confirmation, res.Err
}
