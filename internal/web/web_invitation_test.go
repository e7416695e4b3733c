package web_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvitationShowsOnInviteeHome(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signup("bob")
	alice := ts.signup("alice")

	ts.as(alice)
	rr := ts.get("/invitations/new?to=bob")
	require.Equal(t, http.StatusOK, rr.Code)
	val, _ := parseHTML(rr.Body).Find("#to_username").Attr("value")
	assert.Equal(t, "bob", val)

	rr = ts.post("/invitations", url.Values{"to_username": {"bob"}, "message": {"<b>fancy a game?</b>"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, "#flash", "Invitation sent to bob")

	ts.as(newCookieJar())
	ts.post("/login", url.Values{"username": {"bob"}, "password": {"password123"}})
	doc = parseHTML(ts.get("/").Body)
	inv := doc.Find("#invitations .invitation")
	require.Equal(t, 1, inv.Length())
	assert.Contains(t, inv.Text(), "From alice")
	// messages are escaped, not rendered as markup
	assert.Equal(t, "<b>fancy a game?</b>", inv.Find("q").Text())
	assert.Equal(t, 0, inv.Find("b").Length())
}

func TestInvitationFormErrors(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signup("alice2")
	ts.signup("alice")

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing username", url.Values{"to_username": {""}}, "Enter the username"},
		{"unknown player", url.Values{"to_username": {"nobody"}}, "No player named nobody"},
		{"self", url.Values{"to_username": {"alice"}}, "cannot invite yourself"},
		{"long message", url.Values{"to_username": {"alice2"}, "message": {strings.Repeat("m", 301)}}, "too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.post("/invitations", tt.form)
			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			doc := parseHTML(rr.Body)
			assertContainsText(t, doc, "#form-error", tt.want)
			assertContainsElement(t, doc, "#invite-form")
		})
	}
}

func TestAcceptInvitationStartsGame(t *testing.T) {
	ts := newWebTestServer(t)
	bob := ts.signup("bob")
	alice := ts.signup("alice")

	ts.as(alice)
	ts.invite("bob", "rematch")

	ts.as(bob)
	path := ts.firstInvitationPath()
	rr := ts.get(path)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "#invitation h1", "alice invited you")
	assertContainsText(t, doc, "#invitation-message", "rematch")
	assertContainsElement(t, doc, "button#accept")
	assertContainsElement(t, doc, "button#decline")

	rr = ts.post(path, url.Values{"action": {"accept"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	doc = parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, "#game-status", "bob to move")
	assertContainsElement(t, doc, "#move-form")

	// the invitation is used up
	rr = ts.get(path)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	doc = parseHTML(ts.get("/").Body)
	assertNotContainsElement(t, doc, "#invitations .invitation")
	assertContainsElement(t, doc, "#active-games .game .your-move")
}

func TestDeclineInvitation(t *testing.T) {
	ts := newWebTestServer(t)
	bob := ts.signup("bob")
	alice := ts.signup("alice")

	ts.as(alice)
	ts.invite("bob", "")

	ts.as(bob)
	rr := ts.post(ts.firstInvitationPath(), url.Values{"action": {"decline"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, "#flash", "declined")
	assertNotContainsElement(t, doc, "#invitations .invitation")
	assertNotContainsElement(t, doc, "#active-games .game")
}

func TestInvitationOnlyForInvitee(t *testing.T) {
	ts := newWebTestServer(t)
	bob := ts.signup("bob")
	carol := ts.signup("carol")
	alice := ts.signup("alice")

	ts.as(alice)
	ts.invite("bob", "")
	ts.as(bob)
	path := ts.firstInvitationPath()

	ts.as(carol)
	rr := ts.get(path)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), "#error-message", "not addressed to you")

	rr = ts.post(path, url.Values{"action": {"accept"}})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	ts.as(bob)
	rr = ts.post(path, url.Values{"action": {"maybe"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
