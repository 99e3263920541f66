package chain

import (
	"context"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"

	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/id"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/logging"
)

// TxEvent is the committed record of one top-level transaction.
type TxEvent struct {
	ID       string    `json:"id"`
	ChainID  string    `json:"chain_id"`
	Height   uint64    `json:"height"`
	Time     time.Time `json:"time"`
	Contract string    `json:"contract"`
	Sender   string    `json:"sender"`
	Action   string    `json:"action"`
	Events   []Event   `json:"events"`
}

// Subscriber receives committed transactions. It runs on the emitter's pool
// and must not call back into the App synchronously.
type Subscriber func(ctx context.Context, event TxEvent) error

// Emitter fans committed transactions out to subscribers without holding up
// the transaction that produced them.
type Emitter struct {
	pool   *ants.Pool
	ids    id.Generator
	logger *logging.Logger

	mu          sync.RWMutex
	subscribers map[string]Subscriber
	inflight    sync.WaitGroup
}

func NewEmitter(workers int, ids id.Generator, logger *logging.Logger) (*Emitter, error) {
	if workers <= 0 {
		workers = 1
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, crerr.Wrap(err, "create event worker pool")
	}
	return &Emitter{
		pool:        pool,
		ids:         ids,
		logger:      logger,
		subscribers: make(map[string]Subscriber),
	}, nil
}

func (e *Emitter) Subscribe(name string, fn Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers[name] = fn
}

// Publish stamps the event with an id and hands it to every subscriber.
func (e *Emitter) Publish(ctx context.Context, event TxEvent) {
	if e == nil {
		return
	}
	if event.ID == "" {
		eventID, err := e.ids.NewID()
		if err != nil {
			e.logger.WarnContext(ctx, "generate event id failed", "error", err)
		}
		event.ID = eventID
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	for name, fn := range e.subscribers {
		name, fn := name, fn
		e.inflight.Add(1)
		err := e.pool.Submit(func() {
			defer e.inflight.Done()
			var catcher panics.Catcher
			var deliverErr error
			catcher.Try(func() {
				deliverErr = fn(context.WithoutCancel(ctx), event)
			})
			if recovered := catcher.Recovered(); recovered != nil {
				e.logger.Error("event subscriber panicked",
					"subscriber", name,
					"event_id", event.ID,
					"error", recovered.AsError(),
				)
				return
			}
			if deliverErr != nil {
				e.logger.Warn("event subscriber failed",
					"subscriber", name,
					"event_id", event.ID,
					"error", deliverErr,
				)
			}
		})
		if err != nil {
			e.inflight.Done()
			e.logger.WarnContext(ctx, "submit event to worker pool failed", "subscriber", name, "error", err)
		}
	}
}

// Flush blocks until every published event has been delivered.
func (e *Emitter) Flush() {
	if e == nil {
		return
	}
	e.inflight.Wait()
}

func (e *Emitter) Close() {
	if e == nil {
		return
	}
	e.Flush()
	e.pool.Release()
}
