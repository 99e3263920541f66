package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/eventlog"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/logging"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/resilience"
)

const (
	defaultEventListLimit = 50
	maxEventListLimit     = 500

	contractAddressAttr = "_contract_address"
)

// EventIndexService projects committed transactions into the event index.
type EventIndexService struct {
	repo    eventlog.Repository
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewEventIndexService(repo eventlog.Repository, breakerCfg resilience.CircuitBreakerConfig, logger *logging.Logger) *EventIndexService {
	if logger == nil {
		logger = logging.Default()
	}
	s := &EventIndexService{repo: repo, logger: logger}
	if breakerCfg.Enabled {
		s.breaker = resilience.NewCircuitBreaker(breakerCfg, clockwork.NewRealClock())
		s.breaker.OnStateChange(func(circuit string, from, to resilience.CircuitState) {
			logger.Warn("event index circuit changed state", "circuit", circuit, "from", from, "to", to)
		})
	}
	return s
}

// Subscriber adapts Index to the host's event emitter.
func (s *EventIndexService) Subscriber() chain.Subscriber {
	return s.Index
}

func (s *EventIndexService) Index(ctx context.Context, tx chain.TxEvent) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventIndexService.Index")
	defer span.End()

	entries := Flatten(tx)
	if len(entries) == 0 {
		return nil
	}

	insert := func() error {
		return s.repo.InsertBatch(ctx, entries)
	}
	if s.breaker == nil {
		if err := insert(); err != nil {
			return fmt.Errorf("index events height=%d: %w", tx.Height, err)
		}
		return nil
	}

	err := s.breaker.Do(insert)
	var open *resilience.OpenError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &open):
		s.logger.WarnContext(ctx, "event index skipped", "event_id", tx.ID, "height", tx.Height, "retry_after", open.RetryAfter)
		return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	default:
		return fmt.Errorf("index events height=%d: %w", tx.Height, err)
	}
}

func (s *EventIndexService) ListByContract(ctx context.Context, contract string, limit int) ([]eventlog.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventIndexService.ListByContract")
	defer span.End()

	contract = strings.TrimSpace(contract)
	if contract == "" {
		return nil, fmt.Errorf("%w: contract address is required", ErrInvalidInput)
	}
	switch {
	case limit <= 0:
		limit = defaultEventListLimit
	case limit > maxEventListLimit:
		limit = maxEventListLimit
	}

	items, err := s.repo.ListByContract(ctx, contract, limit)
	if err != nil {
		return nil, fmt.Errorf("list contract events: %w", err)
	}
	return items, nil
}

// Flatten turns a transaction into one entry per event. Events that carry
// a _contract_address attribute are filed under that contract.
func Flatten(tx chain.TxEvent) []eventlog.Entry {
	out := make([]eventlog.Entry, 0, len(tx.Events))
	for i, ev := range tx.Events {
		entry := eventlog.Entry{
			EventID:    tx.ID,
			ChainID:    tx.ChainID,
			Height:     tx.Height,
			BlockTime:  tx.Time,
			Contract:   tx.Contract,
			Sender:     tx.Sender,
			Action:     tx.Action,
			Index:      i,
			Type:       ev.Type,
			Attributes: make([]eventlog.Attribute, 0, len(ev.Attributes)),
		}
		for _, attr := range ev.Attributes {
			if attr.Key == contractAddressAttr && attr.Value != "" {
				entry.Contract = attr.Value
			}
			entry.Attributes = append(entry.Attributes, eventlog.Attribute{Key: attr.Key, Value: attr.Value})
		}
		out = append(out, entry)
	}
	return out
}
