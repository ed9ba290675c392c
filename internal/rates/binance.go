package rates

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const binanceP2PURL = "https://p2p.binance.com/bapi/c2c/v2/friendly/c2c/adv/search"

type binanceSource struct {
	client *resty.Client
	asset  string
	fiat   string
}

type binanceRequest struct {
	Fiat      string   `json:"fiat"`
	Page      int      `json:"page"`
	Rows      int      `json:"rows"`
	TradeType string   `json:"tradeType"`
	Asset     string   `json:"asset"`
	Countries []string `json:"countries"`
	PayTypes  []string `json:"payTypes"`
}

type binanceResponse struct {
	Data []struct {
		Adv struct {
			Price string `json:"price"`
		} `json:"adv"`
	} `json:"data"`
}

func NewBinanceSource(asset, fiat string, timeout time.Duration) *binanceSource {
	return &binanceSource{
		client: resty.New().SetTimeout(timeout),
		asset:  asset,
		fiat:   fiat,
	}
}

func (s *binanceSource) Label() string { return "binance" }

func (s *binanceSource) FetchPrice(ctx context.Context) (float64, error) {
	var out binanceResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", "Mozilla/5.0").
		SetBody(binanceRequest{
			Fiat:      s.fiat,
			Page:      1,
			Rows:      10,
			TradeType: "BUY",
			Asset:     s.asset,
			Countries: []string{},
			PayTypes:  []string{},
		}).
		SetResult(&out).
		Post(binanceP2PURL)
	if err != nil {
		return 0, fmt.Errorf("binance request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("binance request status: %d", resp.StatusCode())
	}
	if len(out.Data) == 0 {
		return 0, fmt.Errorf("binance returned no ads for %s/%s", s.asset, s.fiat)
	}

	price, err := strconv.ParseFloat(out.Data[0].Adv.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("binance price parse failed: %w", err)
	}
	return price, nil
}
