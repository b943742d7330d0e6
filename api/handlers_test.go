/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Period parsing and validation (Export)
- Error status mapping (400 / 422 / 500)
- File download headers and body shape
*/
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/sintegra-engine/domain"
	"github.com/warp/sintegra-engine/record"
)

func testView() *domain.Memory {
	v := domain.NewMemory()
	v.Branch = domain.BranchFacts{
		CGC:               3852461000143,
		StateRegistration: "110042490114",
		Company:           "Warp Retail Ltda",
		City:              "Sao Carlos",
		State:             "SP",
		Street:            "Rua Episcopal",
		StreetNumber:      2416,
		District:          "Centro",
		PostalCode:        13560049,
		Manager:           "Maria Aparecida",
		Phone:             1633643377,
	}
	return v
}

func doExport(t *testing.T, view domain.View, query string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(NewHandler(view))
	req := httptest.NewRequest(http.MethodGet, "/api/sintegra"+query, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestExport_EmptyPeriod_DownloadsFile(t *testing.T) {
	rec := doExport(t, testView(), "?start=2007-06-01&end=2007-06-30")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=us-ascii", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="sintegra_200706.txt"`, rec.Header().Get("Content-Disposition"))

	body := rec.Body.Bytes()
	require.Zero(t, len(body)%record.LineWidth)
	assert.Equal(t, 5*record.LineWidth, len(body), "header pair plus three summaries")
	assert.Equal(t, "10", string(body[:2]))
}

func TestExport_MissingParams_Rejected(t *testing.T) {
	for _, query := range []string{"", "?start=2007-06-01", "?end=2007-06-30"} {
		rec := doExport(t, testView(), query)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q", query)
	}
}

func TestExport_MalformedDate_Rejected(t *testing.T) {
	rec := doExport(t, testView(), "?start=01/06/2007&end=2007-06-30")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "start")
}

func TestExport_EndBeforeStart_Rejected(t *testing.T) {
	rec := doExport(t, testView(), "?start=2007-06-30&end=2007-06-01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport_DataQualityFailure_Unprocessable(t *testing.T) {
	// A company supplier without a state registration cannot be filed.
	view := testView()
	view.Orders = []domain.ReceivingOrder{{
		Supplier:     domain.Supplier{Name: "Distribuidora Sem Cadastro", CNPJ: 22222222000191},
		ReceivalDate: time.Date(2007, time.June, 12, 0, 0, 0, 0, time.UTC),
		State:        "SP",
		Model:        1,
		Serial:       "1",
		Number:       4277,
		CFOP:         "5.949",
		Emitter:      "P",
		Situation:    "N",
		GoodsTotal:   decimal.NewFromInt(50),
		Items: []domain.OrderItem{
			{SellableCode: "42", ICMSRate: decimal.NewFromInt(18),
				Quantity: decimal.NewFromInt(1), GrossValue: decimal.NewFromInt(50)},
		},
	}}

	rec := doExport(t, view, "?start=2007-06-01&end=2007-06-30")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "Distribuidora Sem Cadastro")
}

func TestExport_BodyIsASCII(t *testing.T) {
	view := testView()
	view.Branch.Company = "Padaria São João Ltda"

	rec := doExport(t, view, "?start=2007-06-01&end=2007-06-30")
	require.Equal(t, http.StatusOK, rec.Code)

	for _, line := range strings.Split(strings.TrimSuffix(rec.Body.String(), "\r\n"), "\r\n") {
		for _, b := range []byte(line) {
			assert.True(t, b >= 0x20 && b <= 0x7e, "byte 0x%02x leaked into the download", b)
		}
	}
}

func TestHealth(t *testing.T) {
	router := NewRouter(NewHandler(testView()))
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}
