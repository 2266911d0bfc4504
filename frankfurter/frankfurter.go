// Package frankfurter fetches the daily EUR per USD reference rates from the
// Frankfurter web service (https://frankfurter.dev), a mirror of the rates
// published by the European Central Bank.
//
// The ECB does not publish on weekends and TARGET holidays, those days are
// missing from the responses.
package frankfurter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/kest"
	"github.com/etnz/kest/date"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// DefaultURL is the base address of the public Frankfurter API.
const DefaultURL = "https://api.frankfurter.dev/v1"

// Client is a kest.RateSource backed by the Frankfurter API.
type Client struct {
	BaseURL string       // defaults to DefaultURL
	HTTP    *http.Client // defaults to a client caching responses on disk for the day

	memo *cache.Cache
}

var _ kest.RateSource = (*Client)(nil)

// New returns a Client for the given base URL, an empty one uses DefaultURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    newDailyCachingClient(cacheDir()),
		memo:    cache.New(time.Hour, 10*time.Minute),
	}
}

// FetchRates returns the EUR rates for one USD published between from and to.
//
// Responses are memoized for the lifetime of the Client, so that several
// securities processed in the same run share a single request.
func (c *Client) FetchRates(ctx context.Context, from, to date.Date) (map[date.Date]decimal.Decimal, error) {
	key := from.String() + ".." + to.String()
	if c.memo != nil {
		if rates, ok := c.memo.Get(key); ok {
			return maps.Clone(rates.(map[date.Date]decimal.Decimal)), nil
		}
	}

	base, client := c.BaseURL, c.HTTP
	if base == "" {
		base = DefaultURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	addr := fmt.Sprintf("%s/%s?base=USD&symbols=EUR", base, key)

	var jobj any
	if err := jwget(ctx, client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error fetching USD/EUR rates: %w", err)
	}
	rates, err := extract(jobj)
	if err != nil {
		return nil, err
	}
	if c.memo != nil {
		c.memo.Set(key, maps.Clone(rates), cache.DefaultExpiration)
	}
	return rates, nil
}

// Decode reads rates from a document in the Frankfurter format, for instance
// a response saved to work offline.
func Decode(r io.Reader) (map[date.Date]decimal.Decimal, error) {
	var jobj any
	if err := decodeJSON(r, &jobj); err != nil {
		return nil, fmt.Errorf("cannot decode rates: %w", err)
	}
	return extract(jobj)
}

// extract the EUR rates from a parsed response:
//
//	{
//	    "amount": 1.0,
//	    "base": "USD",
//	    "start_date": "2024-01-02",
//	    "end_date": "2024-01-05",
//	    "rates": {
//	        "2024-01-02": {"EUR": 0.91083},
//	        "2024-01-03": {"EUR": 0.91500},
//	        ...
//	    }
//	}
func extract(jobj any) (map[date.Date]decimal.Decimal, error) {
	if base, err := jsonpath.Get("$.base", jobj); err == nil {
		if s, ok := base.(string); ok && s != "USD" {
			return nil, fmt.Errorf("rates are based on %q, want USD", s)
		}
	}

	jval, err := jsonpath.Get("$.rates", jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing rates: %q %w", "$.rates", err)
	}
	days, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("error parsing rates: %q is not an object", "$.rates")
	}

	rates := make(map[date.Date]decimal.Decimal, len(days))
	for str, v := range days {
		on, err := date.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("error parsing rates: %w", err)
		}
		eur, err := jsonpath.Get("$.EUR", v)
		if err != nil {
			return nil, fmt.Errorf("no EUR rate on %s: %w", on, err)
		}
		rate, err := toDecimal(eur)
		if err != nil {
			return nil, fmt.Errorf("invalid EUR rate on %s: %w", on, err)
		}
		rates[on] = rate
	}
	return rates, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		return decimal.NewFromString(n)
	default:
		return decimal.Zero, fmt.Errorf("unexpected value %v", v)
	}
}
