package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/eventlog"
	qb "github.com/riskibarqy/fantasy-league-contracts/internal/platform/querybuilder"
)

const contractEventsTable = "contract_events"

var contractEventColumns = []string{
	"event_id",
	"chain_id",
	"height",
	"block_time",
	"contract",
	"sender",
	"action",
	"event_index",
	"event_type",
	"attributes",
}

type ContractEventRepository struct {
	db *sqlx.DB
}

func NewContractEventRepository(db *sqlx.DB) *ContractEventRepository {
	return &ContractEventRepository{db: db}
}

func (r *ContractEventRepository) InsertBatch(ctx context.Context, entries []eventlog.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	query, args, err := buildInsertContractEventsQuery(entries)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert contract events event_id=%s count=%d: %w", entries[0].EventID, len(entries), err)
	}
	return nil
}

func (r *ContractEventRepository) ListByContract(ctx context.Context, contract string, limit int) ([]eventlog.Entry, error) {
	query, args, err := buildListContractEventsQuery(contract, limit)
	if err != nil {
		return nil, err
	}

	var rows []contractEventTableModel
	err = retryStaleStatement(ctx, func(ctx context.Context) error {
		rows = rows[:0]
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("select contract events contract=%s: %w", contract, err)
	}

	out := make([]eventlog.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func buildInsertContractEventsQuery(entries []eventlog.Entry) (string, []any, error) {
	builder := qb.InsertInto(contractEventsTable).Columns(contractEventColumns...)
	for _, entry := range entries {
		model, err := contractEventInsertFromDomain(entry)
		if err != nil {
			return "", nil, err
		}
		builder.Values(
			model.EventID,
			model.ChainID,
			model.Height,
			model.BlockTime,
			model.Contract,
			model.Sender,
			model.Action,
			model.EventIndex,
			model.EventType,
			model.Attributes,
		)
	}
	query, args, err := builder.Suffix("ON CONFLICT (event_id, event_index) DO NOTHING").ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build insert contract events query: %w", err)
	}
	return query, args, nil
}

func buildListContractEventsQuery(contract string, limit int) (string, []any, error) {
	contract = strings.TrimSpace(contract)
	if contract == "" {
		return "", nil, fmt.Errorf("contract address is required")
	}
	query, args, err := qb.Select("*").From(contractEventsTable).
		Where(qb.Eq("contract", contract)).
		OrderBy("height DESC", "event_index ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build list contract events query: %w", err)
	}
	return query, args, nil
}

func contractEventInsertFromDomain(entry eventlog.Entry) (contractEventInsertModel, error) {
	attrs := entry.Attributes
	if attrs == nil {
		attrs = []eventlog.Attribute{}
	}
	raw, err := sonic.MarshalString(attrs)
	if err != nil {
		return contractEventInsertModel{}, fmt.Errorf("marshal event attributes event_id=%s: %w", entry.EventID, err)
	}
	return contractEventInsertModel{
		EventID:    entry.EventID,
		ChainID:    entry.ChainID,
		Height:     int64(entry.Height),
		BlockTime:  entry.BlockTime.UTC(),
		Contract:   entry.Contract,
		Sender:     entry.Sender,
		Action:     entry.Action,
		EventIndex: entry.Index,
		EventType:  entry.Type,
		Attributes: raw,
	}, nil
}

func (m contractEventTableModel) toDomain() (eventlog.Entry, error) {
	var attrs []eventlog.Attribute
	if m.Attributes != "" {
		if err := sonic.UnmarshalString(m.Attributes, &attrs); err != nil {
			return eventlog.Entry{}, fmt.Errorf("decode event attributes id=%d: %w", m.ID, err)
		}
	}
	return eventlog.Entry{
		EventID:    m.EventID,
		ChainID:    m.ChainID,
		Height:     uint64(m.Height),
		BlockTime:  m.BlockTime.UTC(),
		Contract:   m.Contract,
		Sender:     m.Sender,
		Action:     m.Action,
		Index:      m.EventIndex,
		Type:       m.EventType,
		Attributes: attrs,
	}, nil
}
