package web_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownPageRendersNotFound(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/no/such/page")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "h1", "404")
	assertContainsText(t, doc, "#error-message", "/no/such/page")
	assertContainsElement(t, doc, "a[href='/login']")
}

func TestUnknownPageKeepsNavForPlayer(t *testing.T) {
	ts := newWebTestServer(t)
	ts.as(ts.signup("alice"))

	rr := ts.get("/nowhere")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assertContainsElement(t, parseHTML(rr.Body), "#nav-player")
}

func TestUnknownPageEscapesPath(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/%3Cscript%3Ealert(1)%3C/script%3E")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotContains(t, rr.Body.String(), "<script>")
}

func TestNoStaticFileRoute(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/static/site.css")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), "#error-message", "/static/site.css")
}
