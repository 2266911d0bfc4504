package kest

import (
	"encoding/json"
	"testing"
	"time"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("ordered keys", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("b", 1)
		w.Append("a", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"b":1,"a":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("nullable", func(t *testing.T) {
		var w jsonObjectWriter
		w.Nullable("absent", NullMoney{})
		w.Nullable("zero", Some(EUR(0)))
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"zero":"0"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("error", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("bad", make(chan int))
		w.Append("a", 1)
		if _, err := w.MarshalJSON(); err == nil {
			t.Errorf("expected an error marshaling a channel")
		}
	})
}

func TestAuditRecord_MarshalJSON(t *testing.T) {
	res, err := Process([]Event{
		lapse(t, day(time.March, 15), 100, 10, 0.9),
		sell(t, day(time.June, 3), 40, 12, 5, 0.92),
	}, Position{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	got, err := json.Marshal(res.Records[0])
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"date":"2024-03-15","event":"LAPSE","quantity":"100","priceUSD":"10","rate":"0.9","priceEUR":"9","quantityBefore":"0","quantityAfter":"100","averageBefore":"0","averageAfter":"9","costBasis":"900"}`
	if string(got) != want {
		t.Errorf("lapse got %s\nwant %s", got, want)
	}

	var sell map[string]any
	raw, err := json.Marshal(res.Records[1])
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if err := json.Unmarshal(raw, &sell); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"proceeds", "realizedPL", "feesUSD", "feesEUR"} {
		if _, ok := sell[key]; !ok {
			t.Errorf("sell record misses %q: %s", key, raw)
		}
	}
	if sell["realizedPL"] != "81.6" {
		t.Errorf("realizedPL = %v, want 81.6", sell["realizedPL"])
	}
}
