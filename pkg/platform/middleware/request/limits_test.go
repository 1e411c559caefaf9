package request

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunhex/pkg/platform/httputil"
)

func TestBodyLimit(t *testing.T) {
	t.Run("body at the limit is readable", func(t *testing.T) {
		body := strings.Repeat("x", 100)
		handler := BodyLimit(100)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Len(t, data, 100)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	})

	t.Run("reading past the limit fails", func(t *testing.T) {
		var readErr error
		handler := BodyLimit(100)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 200))))

		var maxErr *http.MaxBytesError
		require.ErrorAs(t, readErr, &maxErr)
		assert.EqualValues(t, 100, maxErr.Limit)
	})

	t.Run("oversized JSON payload is answered with 413", func(t *testing.T) {
		type payload struct {
			HexCode string `json:"hexCode"`
		}
		handler := BodyLimit(16 << 10)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := httputil.DecodeJSON[payload](w, r, slog.New(slog.DiscardHandler)); !ok {
				return
			}
			w.WriteHeader(http.StatusOK)
		}))

		body := `{"hexCode":"` + strings.Repeat("A", 20<<10) + `"}`
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/decode", strings.NewReader(body)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestTimeoutAnswersWithEnvelope(t *testing.T) {
	handler := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, timeoutBody, w.Body.String())
}
