package alpaca

import (
	"log"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// Provider fetches latest crypto trade prices from Alpaca market data. Quotes
// come back in USD; the demo treats GAS and USD as interchangeable base units.
type Provider struct {
	mdClient *marketdata.Client
}

// New builds a Provider. The Alpaca client reads APCA_API_KEY_ID and
// APCA_API_SECRET_KEY from the environment on its own.
func New() *Provider {
	return &Provider{
		mdClient: marketdata.NewClient(marketdata.ClientOpts{}),
	}
}

// Prices looks up the latest trade for each symbol against USD. Symbols that
// fail to resolve are skipped, not errored: the engine has a 1.0 fallback and
// a partial price map is more useful than none.
func (p *Provider) Prices(symbols []string) (map[string]float64, error) {
	out := make(map[string]float64, len(symbols))
	for _, sym := range symbols {
		trade, err := p.mdClient.GetLatestCryptoTrade(sym+"/USD", marketdata.GetLatestCryptoTradeRequest{})
		if err != nil {
			log.Printf("Warning: no Alpaca price for %s: %v", sym, err)
			continue
		}
		if trade == nil {
			continue
		}
		out[sym] = trade.Price
	}
	return out, nil
}
