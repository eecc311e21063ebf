package sales

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"cavina.GO/core/apperr"
)

// Line is one sold item inside a sale event payload. Quantities and prices
// arrive as JSON numbers or strings; both decode into decimals.
type Line struct {
	ProductID uint            `json:"product_id" mapstructure:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" mapstructure:"quantity" validate:"required"`
	UnitCode  string          `json:"unit_code" mapstructure:"unit_code" validate:"required"`
	Currency  string          `json:"currency" mapstructure:"currency"`
	Price     decimal.Decimal `json:"price" mapstructure:"price"`
}

// EventInput is a sale event as sent by a terminal: a globally unique event
// id plus the lines sold. The raw payload is stored verbatim next to the
// decoded form, so ingestion never loses fields it does not understand.
type EventInput struct {
	EventID    string          `json:"event_id" mapstructure:"event_id" validate:"required"`
	OccurredAt time.Time       `json:"occurred_at" mapstructure:"occurred_at"`
	Lines      []Line          `json:"lines" mapstructure:"lines" validate:"required,min=1,dive"`
	Raw        json.RawMessage `json:"-" mapstructure:"-"`
}

func decimalDecodeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(decimal.Decimal{}) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	default:
		return data, nil
	}
}

func timeDecodeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	if s, ok := data.(string); ok {
		return time.Parse(time.RFC3339, s)
	}
	return data, nil
}

// DecodeEvent parses a raw terminal payload into an EventInput, keeping the
// original bytes on Raw for verbatim storage.
func DecodeEvent(raw []byte) (*EventInput, error) {
	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, apperr.Validation("malformed sale payload: %v", err)
	}
	var input EventInput
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(decimalDecodeHook, timeDecodeHook),
		Result:     &input,
		TagName:    "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(generic); err != nil {
		return nil, apperr.Validation("invalid sale payload: %v", err)
	}
	input.Raw = raw
	return &input, nil
}
