package ticker_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-ticker-go/ticker"
)

func TestProvider_ListTickersReference(t *testing.T) {
	p, err := ticker.NewProvider(ticker.Reference())
	require.NoError(t, err)

	got := p.ListTickers()
	require.Len(t, got, 3)
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, "BTCUSDT", got[0].Symbol)
	assert.Equal(t, "49250.00", got[0].LastPrice)
	assert.Equal(t, "ETHUSDT", got[1].Symbol)
	assert.Equal(t, "-0.85", got[1].PriceChangePercent)
	assert.Equal(t, "BNBUSDT", got[2].Symbol)
}

func TestProvider_StableAcrossCalls(t *testing.T) {
	p, err := ticker.NewProvider(ticker.Reference())
	require.NoError(t, err)

	first := p.ListTickers()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, p.ListTickers())
	}
}

func TestProvider_CallerCannotMutate(t *testing.T) {
	src := ticker.Reference()
	p, err := ticker.NewProvider(src)
	require.NoError(t, err)

	// 修改构造入参和返回值都不应影响 provider
	src[0].LastPrice = "1"
	out := p.ListTickers()
	out[1].Symbol = "XXX"

	again := p.ListTickers()
	assert.Equal(t, "49250.00", again[0].LastPrice)
	assert.Equal(t, "ETHUSDT", again[1].Symbol)
}

func TestProvider_RecordsWellFormed(t *testing.T) {
	p, err := ticker.NewProvider(ticker.Reference())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, r := range p.ListTickers() {
		assert.False(t, seen[r.Symbol], "duplicate symbol %s", r.Symbol)
		seen[r.Symbol] = true
		for _, v := range []string{r.LastPrice, r.High, r.Volume, r.PriceChangePercent} {
			require.NotEmpty(t, v)
			_, err := decimal.NewFromString(v)
			assert.NoError(t, err, "field %q of %s", v, r.Symbol)
		}
	}
}

func TestProvider_JSONRoundTrip(t *testing.T) {
	p, err := ticker.NewProvider(ticker.Reference())
	require.NoError(t, err)

	raw, err := json.Marshal(p.ListTickers())
	require.NoError(t, err)

	var back []ticker.Record
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, p.ListTickers(), back)
}

func TestProvider_JSONFieldOrder(t *testing.T) {
	raw, err := json.Marshal(ticker.Reference()[1])
	require.NoError(t, err)
	assert.Equal(t,
		`{"symbol":"ETHUSDT","lastPrice":"3200.00","high":"3300.00","volume":"850.75","priceChangePercent":"-0.85"}`,
		string(raw))
}

func TestNewProvider_FailsFast(t *testing.T) {
	cases := []struct {
		name    string
		records []ticker.Record
	}{
		{"nil", nil},
		{"empty", []ticker.Record{}},
		{"bad_price", []ticker.Record{{Symbol: "BTCUSDT", LastPrice: "abc", High: "1", Volume: "1", PriceChangePercent: "0"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ticker.NewProvider(tc.records)
			assert.Nil(t, p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ticker.ErrInitialization))

			var ie *ticker.InitializationError
			assert.True(t, errors.As(err, &ie))
		})
	}
}
