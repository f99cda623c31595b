package api

import (
	"errors"
	"net/http"

	"cosmossdk.io/math"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/ponder-dex/ponder/dex/pair"
	"github.com/ponder-dex/ponder/dex/types"
)

// handleParams returns the factory configuration.
func (s *Server) handleParams(c *gin.Context) {
	p := s.factory.Params()
	c.JSON(http.StatusOK, ParamsResponse{
		FeeTo:       string(p.FeeTo),
		FeeToSetter: string(p.FeeToSetter),
		Launcher:    string(p.Launcher),
		PonderToken: string(p.PonderToken),
		FeeOn:       p.FeeOn(),
	})
}

// handleListPairs returns every registered pair.
func (s *Server) handleListPairs(c *gin.Context) {
	pairs := s.factory.Pairs()
	out := make([]PairResponse, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, pairResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"pairs": out, "count": len(out)})
}

// handleGetPair returns one pair by address.
func (s *Server) handleGetPair(c *gin.Context) {
	p, ok := s.lookupPair(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, pairResponse(p))
}

// handleGetOracle returns a pair's cumulative price observation.
func (s *Server) handleGetOracle(c *gin.Context) {
	p, ok := s.lookupPair(c)
	if !ok {
		return
	}
	obs := p.Observation()
	c.JSON(http.StatusOK, OracleResponse{
		Pair:             string(p.Address()),
		Price0Cumulative: obs.Price0Cumulative.String(),
		Price1Cumulative: obs.Price1Cumulative.String(),
		Timestamp:        obs.Timestamp,
	})
}

// handleQuote simulates an exact-input swap:
// GET /v1/pairs/:address/quote?token_in=...&amount_in=...
func (s *Server) handleQuote(c *gin.Context) {
	p, ok := s.lookupPair(c)
	if !ok {
		return
	}
	tokenIn := types.Address(c.Query("token_in"))
	if tokenIn == types.ZeroAddress {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "token_in is required"})
		return
	}
	amountIn, ok2 := math.NewIntFromString(c.Query("amount_in"))
	if !ok2 || !amountIn.IsPositive() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount_in must be a positive integer"})
		return
	}

	amountOut, err := p.SimulateSwap(tokenIn, amountIn)
	if err != nil {
		s.writeError(c, err)
		return
	}
	split, err := p.FeeSplitPreview(tokenIn, amountIn)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, QuoteResponse{
		Pair:        string(p.Address()),
		TokenIn:     string(tokenIn),
		AmountIn:    amountIn.String(),
		AmountOut:   amountOut.String(),
		ProtocolFee: split.Protocol.String(),
		CreatorFee:  split.Creator.String(),
	})
}

// handleEvents returns the most recent emitted events:
// GET /v1/events?limit=n
func (s *Server) handleEvents(c *gin.Context) {
	limit := cast.ToInt(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	events := s.events.Tail(limit)
	out := make([]EventResponse, 0, len(events))
	for _, ev := range events {
		attrs := make(map[string]string, len(ev.Attributes))
		for _, attr := range ev.Attributes {
			attrs[attr.Key] = attr.Value
		}
		out = append(out, EventResponse{Type: ev.Type, Attributes: attrs})
	}
	c.JSON(http.StatusOK, gin.H{"events": out, "count": len(out)})
}

func (s *Server) lookupPair(c *gin.Context) (*pair.Pair, bool) {
	p, err := s.factory.Pair(types.Address(c.Param("address")))
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	return p, true
}

// writeError maps module sentinels to HTTP status codes.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrPairNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrInsufficientInputAmount),
		errors.Is(err, types.ErrInsufficientOutputAmount),
		errors.Is(err, types.ErrInsufficientLiquidity),
		errors.Is(err, types.ErrZeroAddress),
		errors.Is(err, types.ErrIdenticalAddresses):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrUnauthorized):
		status = http.StatusForbidden
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func pairResponse(p *pair.Pair) PairResponse {
	r0, r1, ts := p.Reserves()
	fee0, fee1 := p.AccumulatedFees()
	return PairResponse{
		Address:            string(p.Address()),
		Token0:             string(p.Token0().TokenAddress()),
		Token1:             string(p.Token1().TokenAddress()),
		Reserve0:           r0.String(),
		Reserve1:           r1.String(),
		BlockTimestampLast: ts,
		TotalSupply:        p.TotalSupply().String(),
		AccumulatedFee0:    fee0.String(),
		AccumulatedFee1:    fee1.String(),
	}
}
