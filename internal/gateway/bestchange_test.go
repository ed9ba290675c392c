package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gremlinx/exchange-service/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingFixture = `
<html><body>
<table id="content_table"><tbody>
<tr class="ca">
  <td></td>
  <td class="bj"><div class="ca">BigExchange</div></td>
  <td class="bi">1 USDT<small class="fs">min. 50 000.00</small></td>
  <td class="bi">98.50 RUB</td>
</tr>
<tr><td colspan="4">advertisement row</td></tr>
<tr class="cb">
  <td></td>
  <td class="bj"><div class="ca">SmallExchange</div></td>
  <td class="bi">1 USDT<small class="fs">min. 50.00</small></td>
  <td class="bi">98.00 RUB</td>
</tr>
</tbody></table>
</body></html>`

func newTestGateway(t *testing.T, html string) (*bestChangeGateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, html)
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewBestChangeGateway(logger, srv.URL, time.Second), srv
}

func TestBestChangeGateway_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("first fit below big exchanger minimum", func(t *testing.T) {
		gw, _ := newTestGateway(t, listingFixture)

		res, err := gw.Execute(ctx, entities.Order{ID: "1", Amount: 100})
		require.NoError(t, err)

		assert.Equal(t, "SmallExchange", res.Exchanger)
		assert.Equal(t, 100.0, res.Amount)
		assert.True(t, strings.HasPrefix(res.Address, "TP"))
		assert.True(t, strings.HasSuffix(res.Address, "LIVE"))
	})

	t.Run("large amount takes top ranked exchanger", func(t *testing.T) {
		gw, _ := newTestGateway(t, listingFixture)

		res, err := gw.Execute(ctx, entities.Order{ID: "2", Amount: 60000})
		require.NoError(t, err)
		assert.Equal(t, "BigExchange", res.Exchanger)
	})

	t.Run("no exchanger fits tiny amount", func(t *testing.T) {
		gw, _ := newTestGateway(t, listingFixture)

		_, err := gw.Execute(ctx, entities.Order{ID: "3", Amount: 10})
		assert.ErrorIs(t, err, entities.ErrNoExchangerFound)
	})

	t.Run("unparsable min limit treated as zero", func(t *testing.T) {
		fixture := `
<table id="content_table"><tbody>
<tr class="ca">
  <td></td>
  <td class="bj"><div class="ca">NoLimitsExchange</div></td>
  <td class="bi">1 USDT</td>
  <td class="bi">98.50 RUB</td>
</tr>
</tbody></table>`
		gw, _ := newTestGateway(t, fixture)

		res, err := gw.Execute(ctx, entities.Order{ID: "4", Amount: 1})
		require.NoError(t, err)
		assert.Equal(t, "NoLimitsExchange", res.Exchanger)
	})

	t.Run("missing table is an automation error", func(t *testing.T) {
		gw, _ := newTestGateway(t, `<html><body>maintenance</body></html>`)

		_, err := gw.Execute(ctx, entities.Order{ID: "5", Amount: 100})
		require.Error(t, err)
		assert.NotErrorIs(t, err, entities.ErrNoExchangerFound)
	})

	t.Run("listing error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		t.Cleanup(srv.Close)

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		gw := NewBestChangeGateway(logger, srv.URL, time.Second)

		_, err := gw.Execute(ctx, entities.Order{ID: "6", Amount: 100})
		assert.Error(t, err)
	})
}

func TestParseMinLimit(t *testing.T) {
	testCases := []struct {
		text   string
		want   float64
		wantOK bool
	}{
		{"min. 50 000.00", 50000, true},
		{"min. 50.00", 50, true},
		{"min.100", 100, true},
		{"", 0, false},
		{"from 100", 0, false},
	}

	for _, tc := range testCases {
		got, ok := parseMinLimit(tc.text)
		assert.Equal(t, tc.wantOK, ok, tc.text)
		if tc.wantOK {
			assert.Equal(t, tc.want, got, tc.text)
		}
	}
}
