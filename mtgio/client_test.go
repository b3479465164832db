package mtgio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const narsetBody = `{"card":{"name":"Narset, Enlightened Master","manaCost":"{3}{U}{R}{W}","type":"Legendary Creature — Human Monk","rarity":"Mythic","setName":"Khans of Tarkir","text":"First strike, hexproof\nWhenever Narset, Enlightened Master attacks, exile the top four cards of your library. Until end of turn, you may cast noncreature spells exiled this way without paying their mana costs."}}`

const pageBody = `{"cards":[{"name":"Ancestor's Chosen","manaCost":"{5}{W}{W}","type":"Creature — Human Cleric","rarity":"Uncommon","setName":"Tenth Edition"},{"name":"Angel of Mercy","manaCost":"{4}{W}","type":"Creature — Angel","rarity":"Uncommon","setName":"Tenth Edition"}]}`

// newTestAPI serves a minimal card catalog double.
func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		switch {
		case q.Get("name") != "":
			// exact-name lookups arrive with literal quotes around the name
			name := q.Get("name")
			assert.True(t, strings.HasPrefix(name, `"`), "name parameter is not quote-wrapped: %q", name)
			assert.True(t, strings.HasSuffix(name, `"`), "name parameter is not quote-wrapped: %q", name)

			if name == `"Narset, Enlightened Master"` {
				_, _ = w.Write([]byte(`{"cards":[{"name":"Narset, Enlightened Master"}]}`))
				return
			}
			_, _ = w.Write([]byte(EmptyBody))
		case q.Get("page") != "":
			w.Header().Set("Link", `<?page=2>; rel="next"`)
			w.Header().Set("Page-Size", "100")
			w.Header().Set("Count", "100")
			w.Header().Set("Total-Count", "93643")
			w.Header().Set("Ratelimit-Limit", "1000")
			w.Header().Set("Ratelimit-Remaining", "999")
			_, _ = w.Write([]byte(pageBody))
		case r.URL.Path == "/386616":
			_, _ = w.Write([]byte(narsetBody))
		case r.URL.Path == "/404000":
			w.WriteHeader(http.StatusNotFound)
		case r.URL.Path == "/0":
			_, _ = w.Write([]byte(EmptyBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestClient(srv *httptest.Server) *MTGClient {
	return NewMTGClient(
		WithClient(NewClient(
			WithAPIEndpoint(srv.URL),
			WithHTTPClient(srv.Client()),
		)),
	)
}

func TestCardByID(t *testing.T) {
	srv := newTestAPI(t)
	defer srv.Close()

	result, err := newTestClient(srv).CardByID(context.Background(), "386616")
	require.NoError(t, err)

	c := result.Card
	assert.Equal(t, "Narset, Enlightened Master", c.Name)
	assert.Equal(t, "{3}{U}{R}{W}", c.ManaCost)
	assert.Equal(t, "Legendary Creature — Human Monk", c.Type)
	assert.Equal(t, "Mythic", c.Rarity)
	assert.Equal(t, "Khans of Tarkir", c.SetName)
	assert.Equal(t, "First strike, hexproof", c.Text[:22])
	assert.Equal(t, "", c.Flavor)
}

func TestCardByIDNotOK(t *testing.T) {
	srv := newTestAPI(t)
	defer srv.Close()

	_, err := newTestClient(srv).CardByID(context.Background(), "404000")
	require.Error(t, err)

	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
}

func TestCardByIDEmptyBody(t *testing.T) {
	srv := newTestAPI(t)
	defer srv.Close()

	_, err := newTestClient(srv).CardByID(context.Background(), "0")
	assert.ErrorIs(t, err, ErrNoCardFound)
}

func TestCardsByName(t *testing.T) {
	srv := newTestAPI(t)
	defer srv.Close()

	list, err := newTestClient(srv).CardsByName(context.Background(), "Narset, Enlightened Master")
	require.NoError(t, err)
	require.Len(t, list.Cards, 1)
	assert.Equal(t, "Narset, Enlightened Master", list.Cards[0].Name)
}

func TestCardsByNameNoMatch(t *testing.T) {
	srv := newTestAPI(t)
	defer srv.Close()

	_, err := newTestClient(srv).CardsByName(context.Background(), "Narset, Unenlightened Student")
	require.Error(t, err)

	var nameErr *NoSuchNameError
	assert.ErrorAs(t, err, &nameErr)
	assert.Equal(t, "Narset, Unenlightened Student", nameErr.Name)
}

func TestCardsByPageWithHeader(t *testing.T) {
	srv := newTestAPI(t)
	defer srv.Close()

	list, header, err := newTestClient(srv).CardsByPageWithHeader(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Ancestor's Chosen", list.Cards[0].Name)
	assert.Len(t, list.Cards, 2)

	assert.Equal(t, uint64(100), header.Count)
	assert.Equal(t, uint64(100), header.PageSize)
	assert.Equal(t, uint64(93643), header.TotalCount)
	assert.Equal(t, uint64(1000), header.RatelimitLimit)
	assert.Greater(t, header.RatelimitRemaining, uint64(0))
}

func TestTransportError(t *testing.T) {
	// nothing listens here
	c := NewMTGClient(WithClient(NewClient(
		WithAPIEndpoint("http://127.0.0.1:1/v1/cards"),
	)))

	_, err := c.CardByID(context.Background(), "386616")
	require.Error(t, err)

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
	assert.NotEmpty(t, transportErr.Message)
}
