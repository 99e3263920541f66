package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestWriteError_HidesInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("pq: relation contract_events does not exist"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "internal server error") || strings.Contains(body, "contract_events") {
		t.Fatalf("expected masked internal error, got %s", body)
	}
}

func TestMapError_Categories(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "invalid message", err: chain.ErrInvalidMessage, wantStatus: http.StatusBadRequest, wantCode: "INVALID_ARGUMENT"},
		{name: "missing contract", err: errors.Wrap(chain.ErrContractNotFound, "execute"), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "missing item", err: fmt.Errorf("%w: season 4", usecase.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "unauthorized", err: usecase.Unauthorized("wasm1x"), wantStatus: http.StatusForbidden, wantCode: "PERMISSION_DENIED"},
		{name: "conflict", err: usecase.ErrConflict, wantStatus: http.StatusConflict, wantCode: "ALREADY_EXISTS"},
		{name: "already handled", err: usecase.ErrAlreadyHandled, wantStatus: http.StatusConflict, wantCode: "ABORTED"},
		{name: "insufficient funds", err: errors.Wrapf(chain.ErrInsufficientFunds, "send %d", 10), wantStatus: http.StatusUnprocessableEntity, wantCode: "FAILED_PRECONDITION"},
		{name: "reply", err: usecase.ErrReplyProcessing, wantStatus: http.StatusUnprocessableEntity, wantCode: "ABORTED"},
		{name: "dependency", err: usecase.ErrDependencyUnavailable, wantStatus: http.StatusServiceUnavailable, wantCode: "UNAVAILABLE"},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(context.Background(), tt.err)
			if got.HTTPStatus != tt.wantStatus || got.Status != tt.wantCode {
				t.Fatalf("mapError(%v)=%d/%s want %d/%s", tt.err, got.HTTPStatus, got.Status, tt.wantStatus, tt.wantCode)
			}
		})
	}
}
