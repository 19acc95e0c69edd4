package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyMarshalJSON(t *testing.T) {
	cases := map[string]string{
		"39.9":   `"39.90"`,
		"74.8":   `"74.80"`,
		"22.444": `"22.44"`,
		"0":      `"0.00"`,
	}
	for input, want := range cases {
		amount, err := decimal.NewFromString(input)
		if err != nil {
			t.Fatalf("parse %q failed: %v", input, err)
		}
		got, err := json.Marshal(NewMoneyFromDecimal(amount))
		if err != nil {
			t.Fatalf("marshal %q failed: %v", input, err)
		}
		if string(got) != want {
			t.Fatalf("marshal %q: got %s want %s", input, got, want)
		}
	}
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	var fromString Money
	if err := json.Unmarshal([]byte(`"39.90"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if !fromString.Decimal.Equal(decimal.NewFromFloat(39.90)) {
		t.Fatalf("unexpected value from string: %s", fromString.String())
	}

	var fromNumber Money
	if err := json.Unmarshal([]byte(`39.9`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if !fromNumber.Decimal.Equal(decimal.NewFromFloat(39.90)) {
		t.Fatalf("unexpected value from number: %s", fromNumber.String())
	}

	if err := json.Unmarshal([]byte(`"not-money"`), &fromString); err == nil {
		t.Fatalf("expected error for invalid amount")
	}
}

func TestMoneyRoundTripInStruct(t *testing.T) {
	type line struct {
		Price Money `json:"price"`
	}
	src := line{Price: NewMoneyFromFloat(34.9)}
	body, err := json.Marshal(src)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(body) != `{"price":"34.90"}` {
		t.Fatalf("unexpected body: %s", body)
	}
	var dst line
	if err := json.Unmarshal(body, &dst); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !dst.Price.Decimal.Equal(src.Price.Decimal) {
		t.Fatalf("round trip mismatch: %s vs %s", dst.Price.String(), src.Price.String())
	}
}
