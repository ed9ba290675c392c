package rates

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/100.0.4896.127 Safari/537.36"

// bestChangeSource парсит страницу направления обмена на BestChange.
// Курс берётся из первой строки таблицы обменников: лучшие
// предложения отсортированы наверх.
type bestChangeSource struct {
	client *resty.Client
	url    string
}

func NewBestChangeSource(pairURL string, timeout time.Duration) *bestChangeSource {
	return &bestChangeSource{
		client: resty.New().SetTimeout(timeout),
		url:    pairURL,
	}
}

func (s *bestChangeSource) Label() string { return "bestchange" }

func (s *bestChangeSource) FetchPrice(ctx context.Context) (float64, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", browserUserAgent).
		Get(s.url)
	if err != nil {
		return 0, fmt.Errorf("bestchange request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("bestchange request status: %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(resp.Body())))
	if err != nil {
		return 0, fmt.Errorf("bestchange parse failed: %w", err)
	}

	firstRow := doc.Find("#content_table tbody tr").First()
	if firstRow.Length() == 0 {
		return 0, fmt.Errorf("bestchange rate table not found")
	}

	// Колонки td.bi: сколько отдаём и сколько получаем за это.
	giveVal, err := parseAmountCell(firstRow.Find("td.bi").First().Text())
	if err != nil {
		return 0, fmt.Errorf("bestchange give column: %w", err)
	}
	getVal, err := parseAmountCell(firstRow.Find("td.bi").Eq(1).Text())
	if err != nil {
		return 0, fmt.Errorf("bestchange get column: %w", err)
	}
	if giveVal == 0 {
		return 0, fmt.Errorf("bestchange give amount is zero")
	}

	return getVal / giveVal, nil
}

// parseAmountCell достаёт число из начала текста ячейки
// вида "92.50 RUB Sberbank".
func parseAmountCell(text string) (float64, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty amount cell")
	}
	return strconv.ParseFloat(fields[0], 64)
}
