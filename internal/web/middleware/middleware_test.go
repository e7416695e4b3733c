package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tictactoe-go/internal/middleware"
	"github.com/mcoot/tictactoe-go/internal/testutil"
)

func TestRecoveryRendersErrorPage(t *testing.T) {
	handler := Recovery(testutil.NopLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("lost the board")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/games/abc", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), `id="error-message"`)
	assert.NotContains(t, rr.Body.String(), "lost the board")
}

func TestRecoveryQuotesRequestID(t *testing.T) {
	logger := testutil.NopLogger()
	handler := middleware.Logging(logger)(Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("again")
	})))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rr.Header().Get(middleware.RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Contains(t, rr.Body.String(), "Reference: "+id)
}

func TestFlashRoundTrip(t *testing.T) {
	rr := httptest.NewRecorder()
	SetFlash(rr, FlashSuccess, "Invitation sent to bob & co; see you")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}

	var got string
	out := httptest.NewRecorder()
	Flash()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		if f := GetFlash(r.Context()); f != nil {
			got = f.Message
		}
	})).ServeHTTP(out, req)

	assert.Equal(t, "Invitation sent to bob & co; see you", got)
	assert.NotEmpty(t, out.Result().Cookies(), "flash cookie should be cleared")
}

func TestParseFlash(t *testing.T) {
	f := parseFlash(url.QueryEscape("error:It's not your turn"))
	assert.Equal(t, FlashError, f.Type)
	assert.Equal(t, "It's not your turn", f.Message)

	f = parseFlash("plain")
	assert.Equal(t, FlashInfo, f.Type)
	assert.Equal(t, "plain", f.Message)

	assert.Nil(t, parseFlash("%zz"))
}
