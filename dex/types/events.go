package types

import (
	"sync"
)

// Event types emitted by pairs and the factory
const (
	EventTypePairCreated     = "pair_created"
	EventTypeLiquidityMinted = "liquidity_minted"
	EventTypeLiquidityBurned = "liquidity_burned"
	EventTypeSwap            = "swap_executed"
	EventTypeSync            = "pair_synced"
	EventTypeSkim            = "pair_skimmed"
	EventTypeFeesCollected   = "fees_collected"
)

// Event attribute keys
const (
	AttributeKeyPair       = "pair"
	AttributeKeyToken0     = "token0"
	AttributeKeyToken1     = "token1"
	AttributeKeySender     = "sender"
	AttributeKeyRecipient  = "recipient"
	AttributeKeyAmount0    = "amount0"
	AttributeKeyAmount1    = "amount1"
	AttributeKeyAmount0In  = "amount0_in"
	AttributeKeyAmount1In  = "amount1_in"
	AttributeKeyAmount0Out = "amount0_out"
	AttributeKeyAmount1Out = "amount1_out"
	AttributeKeyLiquidity  = "liquidity"
	AttributeKeyReserve0   = "reserve0"
	AttributeKeyReserve1   = "reserve1"
	AttributeKeyFee0       = "fee0"
	AttributeKeyFee1       = "fee1"
)

// Attribute is a single key/value of an event.
type Attribute struct {
	Key   string
	Value string
}

// NewAttribute creates an event attribute.
func NewAttribute(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Event is an observability record emitted by a state-mutating operation.
type Event struct {
	Type       string
	Attributes []Attribute
}

// NewEvent creates an event with the given type and attributes.
func NewEvent(eventType string, attrs ...Attribute) Event {
	return Event{Type: eventType, Attributes: attrs}
}

// Attribute returns the value for a key and whether it was present.
func (e Event) Attribute(key string) (string, bool) {
	for _, attr := range e.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// EventManager buffers events for indexing. Safe for concurrent use; pairs
// on distinct managers never contend.
type EventManager struct {
	mu     sync.Mutex
	events []Event
}

// NewEventManager creates an empty event manager.
func NewEventManager() *EventManager {
	return &EventManager{}
}

// Emit appends an event to the buffer.
func (em *EventManager) Emit(event Event) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.events = append(em.events, event)
}

// EmitEvents appends a batch of events.
func (em *EventManager) EmitEvents(events ...Event) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.events = append(em.events, events...)
}

// Events returns a copy of all buffered events.
func (em *EventManager) Events() []Event {
	em.mu.Lock()
	defer em.mu.Unlock()
	out := make([]Event, len(em.events))
	copy(out, em.events)
	return out
}

// Tail returns up to n most recent events.
func (em *EventManager) Tail(n int) []Event {
	em.mu.Lock()
	defer em.mu.Unlock()
	if n > len(em.events) {
		n = len(em.events)
	}
	out := make([]Event, n)
	copy(out, em.events[len(em.events)-n:])
	return out
}
