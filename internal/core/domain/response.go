package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PayloadKind names the shape carried by a Payload.
type PayloadKind string

const (
	PayloadNone        PayloadKind = "none"
	PayloadQuotation   PayloadKind = "quotation"
	PayloadSymbols     PayloadKind = "symbols"
	PayloadTradeVolume PayloadKind = "tradeVolume"
)

// Payload is the feed result delivered to an originator. The registry never
// inspects Data; it is whatever the data source returned for the data key.
type Payload struct {
	Kind PayloadKind     `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NoData is the explicit "no data" variant.
func NoData() Payload {
	return Payload{Kind: PayloadNone}
}

func (p Payload) IsEmpty() bool {
	return p.Kind == "" || p.Kind == PayloadNone
}

// Response is what a fetcher delivers to the originator's callback and what
// the originator keeps as its latest result.
type Response struct {
	RequestID  RequestID `json:"request_id"`
	Err        string    `json:"err"`
	Payload    Payload   `json:"payload"`
	ReceivedAt time.Time `json:"received_at"`
}

// Failed reports whether the fetcher reported an error for this request.
func (r *Response) Failed() bool {
	return r.Err != ""
}

// QuoteData is the diadata "quotation" result.
type QuoteData struct {
	Symbol             string          `json:"Symbol"`
	Name               string          `json:"Name"`
	Price              decimal.Decimal `json:"Price"`
	PriceYesterday     decimal.Decimal `json:"PriceYesterday"`
	VolumeYesterdayUSD decimal.Decimal `json:"VolumeYesterdayUSD"`
	Source             string          `json:"Source"`
	Time               string          `json:"Time"`
	ITIN               string          `json:"ITIN"`
}

// SymbolsData is the diadata "symbols" result.
type SymbolsData struct {
	Symbols []string `json:"Symbols"`
}

// TradeVolumeData is the diadata trade volume result, a bare number.
type TradeVolumeData = decimal.Decimal

// NewPayload encodes v as the data of a payload of the given kind.
func NewPayload(kind PayloadKind, v any) (Payload, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Payload{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return Payload{Kind: kind, Data: data}, nil
}

func (p Payload) Quote() (*QuoteData, error) {
	var q QuoteData
	if err := p.decode(PayloadQuotation, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (p Payload) Symbols() (*SymbolsData, error) {
	var s SymbolsData
	if err := p.decode(PayloadSymbols, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (p Payload) TradeVolume() (TradeVolumeData, error) {
	var v TradeVolumeData
	if err := p.decode(PayloadTradeVolume, &v); err != nil {
		return decimal.Zero, err
	}
	return v, nil
}

func (p Payload) decode(kind PayloadKind, dst any) error {
	if p.Kind != kind {
		return fmt.Errorf("payload is %q, not %q", p.Kind, kind)
	}
	if err := json.Unmarshal(p.Data, dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return nil
}

// Summary is a short human readable description used in logs.
func (p Payload) Summary() string {
	switch p.Kind {
	case PayloadNone, "":
		return "empty data"
	case PayloadQuotation:
		if q, err := p.Quote(); err == nil {
			return fmt.Sprintf("Quote %s %s", q.Name, q.Price)
		}
	case PayloadSymbols:
		if s, err := p.Symbols(); err == nil {
			return fmt.Sprintf("Symbols %d", len(s.Symbols))
		}
	case PayloadTradeVolume:
		if v, err := p.TradeVolume(); err == nil {
			return fmt.Sprintf("TradeVolume %s", v)
		}
	}
	return fmt.Sprintf("%s (%d bytes)", p.Kind, len(p.Data))
}
