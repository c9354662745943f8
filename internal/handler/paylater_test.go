package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaarbuddy/paylater-engine/internal/config"
	"github.com/bazaarbuddy/paylater-engine/internal/repository"
	"github.com/bazaarbuddy/paylater-engine/internal/service"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	cfg := &config.Config{
		Business: config.BusinessConfig{
			CreditLimit:    "3000",
			InterestRate:   "0.05",
			DueDays:        30,
			BlockGraceDays: 30,
		},
	}

	ledgerService := service.NewLedgerService(
		repository.NewMemoryLedgerRepository(),
		repository.NewMemoryTransactionRepository(),
		nil,
		cfg,
	)

	h, err := NewPayLaterHandler(ledgerService)
	require.NoError(t, err)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/vendors/{vendorId}/pay-later/enroll", h.Enroll).Methods("POST")
	api.HandleFunc("/vendors/{vendorId}/pay-later", h.GetLedger).Methods("GET")
	api.HandleFunc("/vendors/{vendorId}/pay-later/standing", h.Standing).Methods("GET")
	api.HandleFunc("/vendors/{vendorId}/pay-later/charge", h.Charge).Methods("POST")
	api.HandleFunc("/vendors/{vendorId}/pay-later/repay", h.Repay).Methods("POST")
	api.HandleFunc("/vendors/{vendorId}/pay-later/transactions", h.Transactions).Methods("GET")

	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func enrollBody() map[string]interface{} {
	return map[string]interface{}{
		"aadhar":         "1234 5678 9012",
		"account_number": "123456789",
		"ifsc":           "HDFC0001234",
		"upi":            "9876543210@paytm",
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env))
	return env
}

func TestEnrollChargeRepayFlow(t *testing.T) {
	router := newTestRouter(t)

	// Enroll
	recorder := doJSON(t, router, http.MethodPost, "/api/v1/vendors/v1/pay-later/enroll", enrollBody())
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var ledger struct {
		VendorID   string `json:"vendor_id"`
		IsEnrolled bool   `json:"is_enrolled"`
		DueDate    string `json:"due_date"`
	}
	env := decodeEnvelope(t, recorder)
	require.NoError(t, json.Unmarshal(env.Data, &ledger))
	assert.True(t, env.Success)
	assert.Equal(t, "v1", ledger.VendorID)
	assert.True(t, ledger.IsEnrolled)

	// Charge
	recorder = doJSON(t, router, http.MethodPost, "/api/v1/vendors/v1/pay-later/charge", map[string]interface{}{
		"amount":      1200,
		"description": "Wholesale order",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	env = decodeEnvelope(t, recorder)
	require.NoError(t, json.Unmarshal(env.Data, &ledger))
	assert.NotEmpty(t, ledger.DueDate)

	dueDate, err := time.Parse(time.RFC3339, ledger.DueDate)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), dueDate, 25*time.Hour)

	// Standing (not overdue yet)
	recorder = doJSON(t, router, http.MethodGet, "/api/v1/vendors/v1/pay-later/standing", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	// shopspring/decimal marshals amounts as JSON strings
	var standing struct {
		RemainingCredit string `json:"remaining_credit"`
		IsOverdue       bool   `json:"is_overdue"`
	}
	env = decodeEnvelope(t, recorder)
	require.NoError(t, json.Unmarshal(env.Data, &standing))
	assert.Equal(t, "1800", standing.RemainingCredit)
	assert.False(t, standing.IsOverdue)

	// Partial repayment
	recorder = doJSON(t, router, http.MethodPost, "/api/v1/vendors/v1/pay-later/repay", map[string]interface{}{
		"amount":         700,
		"method":         "upi",
		"transaction_id": "TXN-1",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	// Transaction history: purchase then repayment
	recorder = doJSON(t, router, http.MethodGet, "/api/v1/vendors/v1/pay-later/transactions", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var transactions []struct {
		Type   string `json:"type"`
		Amount string `json:"amount"`
	}
	env = decodeEnvelope(t, recorder)
	require.NoError(t, json.Unmarshal(env.Data, &transactions))
	require.Len(t, transactions, 2)
	assert.Equal(t, "purchase", transactions[0].Type)
	assert.Equal(t, "repayment", transactions[1].Type)
	assert.Equal(t, "-700", transactions[1].Amount)
}

func TestEnroll_BadAadharRejected(t *testing.T) {
	router := newTestRouter(t)

	body := enrollBody()
	body["aadhar"] = "1234 5678"

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/vendors/v1/pay-later/enroll", body)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.False(t, decodeEnvelope(t, recorder).Success)
}

func TestEnroll_TwiceConflicts(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/vendors/v1/pay-later/enroll", enrollBody())
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/api/v1/vendors/v1/pay-later/enroll", enrollBody())
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "ALREADY_ENROLLED", decodeEnvelope(t, recorder).Code)
}

func TestCharge_OverLimitConflicts(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/vendors/v1/pay-later/enroll", enrollBody())
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/api/v1/vendors/v1/pay-later/charge", map[string]interface{}{
		"amount":      3500,
		"description": "too much",
	})

	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "CREDIT_LIMIT_EXCEEDED", decodeEnvelope(t, recorder).Code)
}

func TestGetLedger_UnknownVendor404(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/vendors/nobody/pay-later", nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "LEDGER_NOT_FOUND", decodeEnvelope(t, recorder).Code)
}

func TestRepay_UnknownMethodRejected(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/vendors/v1/pay-later/enroll", enrollBody())
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/api/v1/vendors/v1/pay-later/repay", map[string]interface{}{
		"amount":         100,
		"method":         "cheque",
		"transaction_id": "TXN-1",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestCharge_MalformedBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors/v1/pay-later/charge", bytes.NewBufferString("{not json"))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestChargeAmountValidation(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/vendors/v1/pay-later/enroll", enrollBody())
	require.Equal(t, http.StatusCreated, recorder.Code)

	for _, amount := range []int{0, -100} {
		recorder = doJSON(t, router, http.MethodPost, "/api/v1/vendors/v1/pay-later/charge", map[string]interface{}{
			"amount":      amount,
			"description": fmt.Sprintf("amount %d", amount),
		})
		assert.NotEqual(t, http.StatusOK, recorder.Code, "amount %d must be rejected", amount)
	}
}
