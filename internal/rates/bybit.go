package rates

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const bybitOTCURL = "https://api2.bybit.com/fiat/otc/item/online"

type bybitSource struct {
	client   *resty.Client
	token    string
	currency string
}

type bybitRequest struct {
	UserID     string   `json:"userId"`
	TokenID    string   `json:"tokenId"`
	CurrencyID string   `json:"currencyId"`
	Payment    []string `json:"payment"`
	Side       string   `json:"side"`
	Size       string   `json:"size"`
	Page       string   `json:"page"`
	Amount     string   `json:"amount"`
}

type bybitResponse struct {
	Result struct {
		Items []struct {
			Price    string `json:"price"`
			NickName string `json:"nickName"`
		} `json:"items"`
	} `json:"result"`
}

func NewBybitSource(token, currency string, timeout time.Duration) *bybitSource {
	return &bybitSource{
		client:   resty.New().SetTimeout(timeout),
		token:    token,
		currency: currency,
	}
}

func (s *bybitSource) Label() string { return "bybit" }

func (s *bybitSource) FetchPrice(ctx context.Context) (float64, error) {
	var out bybitResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", "Mozilla/5.0").
		SetBody(bybitRequest{
			TokenID:    s.token,
			CurrencyID: s.currency,
			Payment:    []string{},
			Side:       "1",
			Size:       "10",
			Page:       "1",
		}).
		SetResult(&out).
		Post(bybitOTCURL)
	if err != nil {
		return 0, fmt.Errorf("bybit request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("bybit request status: %d", resp.StatusCode())
	}
	if len(out.Result.Items) == 0 {
		return 0, fmt.Errorf("bybit returned no ads for %s/%s", s.token, s.currency)
	}

	price, err := strconv.ParseFloat(out.Result.Items[0].Price, 64)
	if err != nil {
		return 0, fmt.Errorf("bybit price parse failed: %w", err)
	}
	return price, nil
}
