package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gremlinx/exchange-service/internal/entities"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const listingUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/100.0.4896.127 Safari/537.36"

// minLimitRe вытаскивает минимальную сумму из текста вида "min. 50 000.00"
// (пробелы убраны до матчинга).
var minLimitRe = regexp.MustCompile(`min\.([0-9.]+)`)

type exchanger struct {
	name string
	min  float64
}

// bestChangeGateway выбирает обменник из листинга BestChange по
// правилу first-fit: первый в ранжировании площадки, чей минимальный
// лимит не превышает сумму заказа.
type bestChangeGateway struct {
	logger *slog.Logger
	client *resty.Client
	url    string
}

func NewBestChangeGateway(logger *slog.Logger, listingURL string, timeout time.Duration) *bestChangeGateway {
	return &bestChangeGateway{
		logger: logger.With(slog.String("gateway", "bestchange")),
		client: resty.New().SetTimeout(timeout),
		url:    listingURL,
	}
}

func (g *bestChangeGateway) Execute(ctx context.Context, order entities.Order) (Result, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", listingUserAgent).
		Get(g.url)
	if err != nil {
		return Result{}, fmt.Errorf("listing request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Result{}, fmt.Errorf("listing request status: %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(resp.Body())))
	if err != nil {
		return Result{}, fmt.Errorf("listing parse failed: %w", err)
	}

	selected, err := g.selectExchanger(doc, order.Amount)
	if err != nil {
		return Result{}, err
	}

	g.logger.Info("exchanger selected",
		slog.String("order_id", order.ID),
		slog.String("exchanger", selected.name),
		slog.Float64("min_limit", selected.min))

	return Result{
		Address:   paymentAddress(),
		Amount:    order.Amount,
		Exchanger: selected.name,
	}, nil
}

func (g *bestChangeGateway) selectExchanger(doc *goquery.Document, amount float64) (exchanger, error) {
	rows := doc.Find("#content_table tbody tr")
	if rows.Length() == 0 {
		return exchanger{}, fmt.Errorf("exchanger table not found in listing")
	}

	var found *exchanger
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if !row.HasClass("ca") && !row.HasClass("cb") {
			return true
		}

		name := strings.TrimSpace(row.Find("td.bj .ca").First().Text())
		if name == "" {
			name = "Unknown"
		}

		min, ok := parseMinLimit(row.Find("td.bi").First().Find("small.fs").Text())
		if !ok {
			// нечитаемый лимит не исключает обменник из выбора
			g.logger.Warn("unparsable min limit, treating as zero", slog.String("exchanger", name))
			min = 0
		}

		if amount >= min {
			found = &exchanger{name: name, min: min}
			return false
		}
		return true
	})

	if found == nil {
		return exchanger{}, entities.ErrNoExchangerFound
	}
	return *found, nil
}

func parseMinLimit(text string) (float64, bool) {
	compact := strings.NewReplacer(" ", "", " ", "", "\n", "").Replace(text)
	if compact == "" {
		return 0, false
	}
	m := minLimitRe.FindStringSubmatch(compact)
	if m == nil {
		return 0, false
	}
	min, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return min, true
}

const addressAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func paymentAddress() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = addressAlphabet[rand.Intn(len(addressAlphabet))]
	}
	return "TP" + string(b) + "LIVE"
}
