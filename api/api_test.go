package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ponder-dex/ponder/dex/factory"
	"github.com/ponder-dex/ponder/dex/types"
	"github.com/ponder-dex/ponder/testutil"
)

func newTestServer(t *testing.T) (*Server, *factory.Factory, types.Address) {
	t.Helper()
	m := testutil.NewMarket(t, types.DefaultParams())
	srv := NewServer(m.Factory, m.Events, DefaultConfig(), nil)
	return srv, m.Factory, m.Pair.Address()
}

func doRequest(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "healthy", body["status"])
	require.EqualValues(t, 1, body["pairs"])
}

func TestListPairs(t *testing.T) {
	srv, _, pairAddr := newTestServer(t)

	rec := doRequest(t, srv, "/v1/pairs")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Pairs []PairResponse `json:"pairs"`
		Count int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	require.Equal(t, string(pairAddr), body.Pairs[0].Address)
	require.Equal(t, "100000", body.Pairs[0].Reserve0)
	require.Equal(t, "100000", body.Pairs[0].TotalSupply)
}

func TestGetPair(t *testing.T) {
	srv, _, pairAddr := newTestServer(t)

	rec := doRequest(t, srv, "/v1/pairs/"+string(pairAddr))
	require.Equal(t, http.StatusOK, rec.Code)

	var body PairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "pondertoken1aaaa", body.Token0)
	require.Equal(t, "pondertoken1bbbb", body.Token1)
}

func TestGetPairNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, "/v1/pairs/ponderpair1missing")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Error)
}

func TestOracleEndpoint(t *testing.T) {
	srv, _, pairAddr := newTestServer(t)

	rec := doRequest(t, srv, "/v1/pairs/"+string(pairAddr)+"/oracle")
	require.Equal(t, http.StatusOK, rec.Code)

	var body OracleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, string(pairAddr), body.Pair)
	require.Equal(t, "0", body.Price0Cumulative)
}

func TestQuoteEndpoint(t *testing.T) {
	srv, _, pairAddr := newTestServer(t)

	rec := doRequest(t, srv,
		"/v1/pairs/"+string(pairAddr)+"/quote?token_in=pondertoken1aaaa&amount_in=10000")
	require.Equal(t, http.StatusOK, rec.Code)

	var body QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "9066", body.AmountOut)
	require.Equal(t, "5", body.ProtocolFee)
	require.Equal(t, "0", body.CreatorFee)
}

func TestQuoteValidation(t *testing.T) {
	srv, _, pairAddr := newTestServer(t)
	base := "/v1/pairs/" + string(pairAddr) + "/quote"

	rec := doRequest(t, srv, base+"?amount_in=100")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, base+"?token_in=pondertoken1aaaa&amount_in=-5")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, base+"?token_in=pondertoken1aaaa&amount_in=abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParamsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, "/v1/params")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ParamsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.FeeOn)
}

func TestEventsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, "/v1/events?limit=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Events []EventResponse `json:"events"`
		Count  int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// Pair creation and the seeding mint both emitted events.
	require.GreaterOrEqual(t, body.Count, 2)
	require.Equal(t, types.EventTypePairCreated, body.Events[0].Type)
}
