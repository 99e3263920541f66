package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/eventlog"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/coin"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/logging"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

// ContractHost is the part of the chain the gateway drives.
type ContractHost interface {
	Instantiate(ctx context.Context, codeID uint64, sender string, msg json.RawMessage, funds []coin.Coin, label string) (chain.TxResult, error)
	Execute(ctx context.Context, contractAddr, sender string, msg json.RawMessage, funds []coin.Coin) (chain.TxResult, error)
	Query(ctx context.Context, contractAddr string, msg json.RawMessage) ([]byte, error)
	Balance(ctx context.Context, address, denom string) (coin.Coin, error)
	Height() uint64
	ChainID() string
}

// EventReader lists indexed contract events.
type EventReader interface {
	ListByContract(ctx context.Context, contract string, limit int) ([]eventlog.Entry, error)
}

type Handler struct {
	host      ContractHost
	events    EventReader
	logger    *logging.Logger
	validator *validator.Validate
}

// NewHandler builds the gateway handler. events may be nil when the index is disabled.
func NewHandler(host ContractHost, events EventReader, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		host:      host,
		events:    events,
		logger:    logger,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, healthDTO{
		Status:  "ok",
		ChainID: h.host.ChainID(),
		Height:  h.host.Height(),
	})
}

func (h *Handler) InstantiateContract(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InstantiateContract")
	defer span.End()

	codeID, err := strconv.ParseUint(strings.TrimSpace(r.PathValue("codeID")), 10, 64)
	if err != nil || codeID == 0 {
		writeError(ctx, w, fmt.Errorf("%w: code id must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	var req instantiateRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := h.host.Instantiate(ctx, codeID, req.Sender, json.RawMessage(req.Msg), req.Funds, req.Label)
	if err != nil {
		h.logger.WarnContext(ctx, "instantiate contract failed", "code_id", codeID, "sender", req.Sender, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, txResultToDTO(res))
}

func (h *Handler) ExecuteContract(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExecuteContract")
	defer span.End()

	address := strings.TrimSpace(r.PathValue("address"))
	var req executeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := h.host.Execute(ctx, address, req.Sender, json.RawMessage(req.Msg), req.Funds)
	if err != nil {
		h.logger.WarnContext(ctx, "execute contract failed", "contract", address, "sender", req.Sender, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, txResultToDTO(res))
}

func (h *Handler) QueryContract(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.QueryContract")
	defer span.End()

	address := strings.TrimSpace(r.PathValue("address"))
	var req queryRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.host.Query(ctx, address, json.RawMessage(req.Msg))
	if err != nil {
		h.logger.WarnContext(ctx, "query contract failed", "contract", address, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, json.RawMessage(out))
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBalance")
	defer span.End()

	address := strings.TrimSpace(r.PathValue("address"))
	denom := strings.TrimSpace(r.PathValue("denom"))
	if address == "" || denom == "" {
		writeError(ctx, w, fmt.Errorf("%w: address and denom are required", usecase.ErrInvalidInput))
		return
	}

	balance, err := h.host.Balance(ctx, address, denom)
	if err != nil {
		h.logger.ErrorContext(ctx, "get balance failed", "address", address, "denom", denom, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, balanceDTO{Address: address, Denom: balance.Denom, Amount: balance.Amount})
}

func (h *Handler) ListContractEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListContractEvents")
	defer span.End()

	if h.events == nil {
		writeError(ctx, w, fmt.Errorf("%w: event index is disabled", usecase.ErrDependencyUnavailable))
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	address := strings.TrimSpace(r.PathValue("address"))
	entries, err := h.events.ListByContract(ctx, address, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list contract events failed", "contract", address, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eventDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, eventToDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
