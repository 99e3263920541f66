package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/contracttest"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/eventlog"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/logging"
)

type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       map[string]any `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

type listEnvelope struct {
	Data []eventDTO `json:"data"`
}

type stubEvents struct {
	entries   []eventlog.Entry
	gotLimit  int
	gotTarget string
}

func (s *stubEvents) ListByContract(_ context.Context, contract string, limit int) ([]eventlog.Entry, error) {
	s.gotTarget = contract
	s.gotLimit = limit
	return s.entries, nil
}

func newTestRouter(t *testing.T, events EventReader) (*contracttest.Network, http.Handler) {
	t.Helper()
	n := contracttest.New(t)
	handler := NewHandler(n.App, events, logging.NewNop())
	return n, NewRouter(handler, logging.NewNop(), true, []string{"*"})
}

func do(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	_, router := newTestRouter(t, nil)
	rec, env := do(t, router, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2.0", env.APIVersion)
	assert.Equal(t, "fantasy-test", env.Data["chain_id"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestHandler_ExecuteWithdrawAndReadBalance(t *testing.T) {
	t.Parallel()

	n, router := newTestRouter(t, nil)
	n.Mint(n.Manager, 1000)

	body := `{"sender":"` + contracttest.Admin + `","msg":{"withdraw":{"recipient":"wasm1treasury","amount":{"denom":"ujuno","amount":400}}}}`
	rec, env := do(t, router, http.MethodPost, "/v1/contracts/"+n.Manager+"/execute", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotZero(t, env.Data["height"])
	assert.NotEmpty(t, env.Data["events"])

	rec, env = do(t, router, http.MethodGet, "/v1/accounts/wasm1treasury/balances/ujuno", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 400, env.Data["amount"])
}

func TestHandler_ExecuteErrorsMapToStatus(t *testing.T) {
	t.Parallel()

	n, router := newTestRouter(t, nil)
	n.Mint(n.Manager, 100)
	withdraw := func(sender string, amount string) string {
		return `{"sender":"` + sender + `","msg":{"withdraw":{"recipient":"wasm1treasury","amount":{"denom":"ujuno","amount":` + amount + `}}}}`
	}

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "non admin", path: "/v1/contracts/" + n.Manager + "/execute", body: withdraw("wasm1stranger", "10"), wantStatus: http.StatusForbidden, wantCode: "PERMISSION_DENIED"},
		{name: "overdraw", path: "/v1/contracts/" + n.Manager + "/execute", body: withdraw(contracttest.Admin, "5000"), wantStatus: http.StatusUnprocessableEntity, wantCode: "FAILED_PRECONDITION"},
		{name: "unknown variant", path: "/v1/contracts/" + n.Manager + "/execute", body: `{"sender":"wasm1x","msg":{"mint_everything":{}}}`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_ARGUMENT"},
		{name: "unknown contract", path: "/v1/contracts/wasm1nowhere/execute", body: withdraw(contracttest.Admin, "1"), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "missing sender", path: "/v1/contracts/" + n.Manager + "/execute", body: `{"msg":{"withdraw":{}}}`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_ARGUMENT"},
		{name: "unknown field", path: "/v1/contracts/" + n.Manager + "/execute", body: `{"sender":"wasm1x","msg":{},"gas":1}`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_ARGUMENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, router, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Status)
		})
	}

	assert.EqualValues(t, 100, n.Balance(n.Manager))
}

func TestHandler_InstantiateRequiresPermittedCreator(t *testing.T) {
	t.Parallel()

	n, router := newTestRouter(t, nil)
	path := "/v1/codes/" + strconv.FormatUint(n.Codes.Team, 10) + "/instantiate"
	msg := `{"name":"Hawks","admin":"wasm1coach","managing_contract":"` + n.Manager + `"}`

	rec, _ := do(t, router, http.MethodPost, path, `{"sender":"wasm1stranger","label":"team","msg":`+msg+`}`)
	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec, env := do(t, router, http.MethodPost, path, `{"sender":"`+contracttest.Creator+`","label":"team","msg":`+msg+`}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, env.Data["contract_address"])

	rec, _ = do(t, router, http.MethodPost, "/v1/codes/zero/instantiate", `{"sender":"x","label":"l","msg":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_QueryContract(t *testing.T) {
	t.Parallel()

	n, router := newTestRouter(t, nil)
	rec, env := do(t, router, http.MethodPost, "/v1/contracts/"+n.Manager+"/query", `{"msg":{"management_info":{}}}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, env.Data)
}

func TestHandler_ListContractEvents(t *testing.T) {
	t.Parallel()

	t.Run("index disabled", func(t *testing.T) {
		_, router := newTestRouter(t, nil)
		rec, env := do(t, router, http.MethodGet, "/v1/contracts/wasm1league/events", "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "UNAVAILABLE", env.Error.Status)
	})

	t.Run("bad limit", func(t *testing.T) {
		_, router := newTestRouter(t, &stubEvents{})
		rec, _ := do(t, router, http.MethodGet, "/v1/contracts/wasm1league/events?limit=-3", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("lists entries", func(t *testing.T) {
		events := &stubEvents{entries: []eventlog.Entry{{
			EventID:    "ev-1",
			Height:     9,
			BlockTime:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Contract:   "wasm1league",
			Action:     "add_season_to_league",
			Type:       "wasm",
			Attributes: []eventlog.Attribute{{Key: "season_id", Value: "1"}},
		}}}
		_, router := newTestRouter(t, events)

		req := httptest.NewRequest(http.MethodGet, "/v1/contracts/wasm1league/events?limit=10", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body listEnvelope
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "ev-1", body.Data[0].EventID)
		assert.Equal(t, "season_id", body.Data[0].Attributes[0].Key)
		assert.Equal(t, "wasm1league", events.gotTarget)
		assert.Equal(t, 10, events.gotLimit)
	})
}

func TestRouter_RecoversPanics(t *testing.T) {
	t.Parallel()

	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/contracts/x/events", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestRequestID_PropagatesIncomingHeader(t *testing.T) {
	t.Parallel()

	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))
}
