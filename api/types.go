package api

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// PairResponse describes one trading pair's public state.
type PairResponse struct {
	Address            string `json:"address"`
	Token0             string `json:"token0"`
	Token1             string `json:"token1"`
	Reserve0           string `json:"reserve0"`
	Reserve1           string `json:"reserve1"`
	BlockTimestampLast uint32 `json:"block_timestamp_last"`
	TotalSupply        string `json:"total_supply"`
	AccumulatedFee0    string `json:"accumulated_fee0"`
	AccumulatedFee1    string `json:"accumulated_fee1"`
}

// OracleResponse carries the cumulative price counters a TWAP consumer
// records as an observation.
type OracleResponse struct {
	Pair             string `json:"pair"`
	Price0Cumulative string `json:"price0_cumulative"`
	Price1Cumulative string `json:"price1_cumulative"`
	Timestamp        uint32 `json:"timestamp"`
}

// QuoteResponse is the simulated outcome of an exact-input swap.
type QuoteResponse struct {
	Pair        string `json:"pair"`
	TokenIn     string `json:"token_in"`
	AmountIn    string `json:"amount_in"`
	AmountOut   string `json:"amount_out"`
	ProtocolFee string `json:"protocol_fee"`
	CreatorFee  string `json:"creator_fee"`
}

// ParamsResponse mirrors the factory configuration.
type ParamsResponse struct {
	FeeTo       string `json:"fee_to"`
	FeeToSetter string `json:"fee_to_setter"`
	Launcher    string `json:"launcher"`
	PonderToken string `json:"ponder_token"`
	FeeOn       bool   `json:"fee_on"`
}

// EventResponse is one emitted operation record.
type EventResponse struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
