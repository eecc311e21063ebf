package servicetest

import (
	"bytes"
	"testing"
	"time"

	"cavina.GO/core/apperr"
	salesService "cavina.GO/service/sales"
)

func TestDecodeEvent_QuantityAsStringOrNumber(t *testing.T) {
	raw := []byte(`{
		"event_id": "pay-1",
		"occurred_at": "2026-08-28T21:15:00Z",
		"lines": [
			{"product_id": 1, "quantity": "0.5", "unit_code": "glass", "currency": "USD", "price": "6.50"},
			{"product_id": 2, "quantity": 2, "unit_code": "piece", "currency": "USD", "price": 4.5}
		],
		"till_operator": "sam"
	}`)

	input, err := salesService.DecodeEvent(raw)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if input.EventID != "pay-1" {
		t.Errorf("event id = %q", input.EventID)
	}
	want := time.Date(2026, 8, 28, 21, 15, 0, 0, time.UTC)
	if !input.OccurredAt.Equal(want) {
		t.Errorf("occurred_at = %s, want %s", input.OccurredAt, want)
	}
	if len(input.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(input.Lines))
	}
	if !input.Lines[0].Quantity.Equal(dec(t, "0.5")) {
		t.Errorf("string quantity = %s, want 0.5", input.Lines[0].Quantity)
	}
	if !input.Lines[1].Quantity.Equal(dec(t, "2")) {
		t.Errorf("numeric quantity = %s, want 2", input.Lines[1].Quantity)
	}
	if !input.Lines[1].Price.Equal(dec(t, "4.5")) {
		t.Errorf("numeric price = %s, want 4.5", input.Lines[1].Price)
	}

	// Fields the decoder does not model survive on Raw for verbatim storage.
	if !bytes.Equal(input.Raw, raw) {
		t.Error("Raw payload not preserved byte for byte")
	}
}

func TestDecodeEvent_MalformedJSON(t *testing.T) {
	_, err := salesService.DecodeEvent([]byte(`{"event_id": `))
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
}

func TestDecodeEvent_BadQuantity(t *testing.T) {
	raw := []byte(`{"event_id":"pay-bad","lines":[{"product_id":1,"quantity":"a lot","unit_code":"glass"}]}`)
	_, err := salesService.DecodeEvent(raw)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
}
