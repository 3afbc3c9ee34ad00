package market

// PriceProvider supplies current asset prices in GAS terms for the weekly
// simulation. Implementations must return a price for every symbol they can
// resolve and simply omit the ones they cannot; the engine treats missing
// symbols as 1:1 with GAS.
type PriceProvider interface {
	Prices(symbols []string) (map[string]float64, error)
}

// defaultPrices is the demo price table used when no live market data source
// is configured.
var defaultPrices = map[string]float64{
	"BTC":   97000,
	"ETH":   3600,
	"USDC":  1,
	"SOL":   230,
	"AVAX":  45,
	"MATIC": 0.55,
}

// Static serves the fixed demo price table.
type Static struct{}

func NewStatic() *Static {
	return &Static{}
}

func (s *Static) Prices(symbols []string) (map[string]float64, error) {
	out := make(map[string]float64, len(symbols))
	for _, sym := range symbols {
		if p, ok := defaultPrices[sym]; ok {
			out[sym] = p
		}
	}
	return out, nil
}
