package rates_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gremlinx/exchange-service/internal/rates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rateFixture = `
<html><body>
<table id="content_table"><tbody>
<tr class="ca">
  <td></td>
  <td class="bj"><div class="ca">BigExchange</div></td>
  <td class="bi">1 USDT</td>
  <td class="bi">98.50 RUB</td>
</tr>
<tr class="cb">
  <td></td>
  <td class="bj"><div class="ca">SmallExchange</div></td>
  <td class="bi">1 USDT</td>
  <td class="bi">90.00 RUB</td>
</tr>
</tbody></table>
</body></html>`

func TestBestChangeSource_FetchPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("parses first row rate", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, rateFixture)
		}))
		t.Cleanup(srv.Close)

		src := rates.NewBestChangeSource(srv.URL, time.Second)
		price, err := src.FetchPrice(ctx)
		require.NoError(t, err)
		assert.Equal(t, 98.50, price)
	})

	t.Run("missing table", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `<html><body>empty</body></html>`)
		}))
		t.Cleanup(srv.Close)

		src := rates.NewBestChangeSource(srv.URL, time.Second)
		_, err := src.FetchPrice(ctx)
		assert.Error(t, err)
	})

	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		t.Cleanup(srv.Close)

		src := rates.NewBestChangeSource(srv.URL, time.Second)
		_, err := src.FetchPrice(ctx)
		assert.Error(t, err)
	})
}
