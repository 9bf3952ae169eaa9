//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/noswap/seinfeld"
	seinfeldhttp "github.com/noswap/seinfeld/internal/adapters/http"
	"github.com/noswap/seinfeld/internal/adapters/http/handlers"
	"github.com/noswap/seinfeld/internal/app"
	"github.com/noswap/seinfeld/internal/platform/config"
	"github.com/noswap/seinfeld/internal/ports"
)

const fixtureSchema = `
CREATE TABLE seasons (
    number INTEGER PRIMARY KEY
);

CREATE TABLE episodes (
    id             INTEGER PRIMARY KEY,
    season_number  INTEGER NOT NULL,
    episode_number INTEGER NOT NULL,
    title          TEXT NOT NULL,
    air_date       TEXT NOT NULL DEFAULT '',
    writers        TEXT NOT NULL DEFAULT '',
    directors      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE speakers (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE quotes (
    id         INTEGER PRIMARY KEY,
    episode_id INTEGER NOT NULL,
    speaker_id INTEGER NOT NULL,
    position   INTEGER NOT NULL,
    text       TEXT NOT NULL
);

CREATE TABLE subjects (
    id    INTEGER PRIMARY KEY,
    label TEXT NOT NULL
);

CREATE TABLE quote_subjects (
    quote_id   INTEGER NOT NULL,
    subject_id INTEGER NOT NULL,
    PRIMARY KEY (quote_id, subject_id)
);
`

const fixtureSeed = `
INSERT INTO seasons (number) VALUES (1), (4);

INSERT INTO episodes (id, season_number, episode_number, title, air_date, writers, directors) VALUES
    (1,  1, 1, 'Good News, Bad News', '1989-07-05', 'Larry David, Jerry Seinfeld', 'Art Wolff'),
    (10, 4, 3, 'The Pitch',           '1992-09-16', 'Larry David',                 'Tom Cherones');

INSERT INTO speakers (id, name) VALUES
    (1, 'Jerry'),
    (2, 'George');

INSERT INTO quotes (id, episode_id, speaker_id, position, text) VALUES
    (101, 1,  1, 1, 'Do you know what this is all about?'),
    (34661, 10, 1, 1, 'So, we go into NBC.'),
    (34662, 10, 2, 2, 'Yeah, I think we really got something here.'),
    (34663, 10, 1, 3, 'What do we got?'),
    (34664, 10, 2, 4, 'An idea.'),
    (34665, 10, 2, 5, 'The show is about nothing.'),
    (34666, 10, 1, 6, 'Right.');

INSERT INTO subjects (id, label) VALUES (1, 'nothing');

INSERT INTO quote_subjects (quote_id, subject_id) VALUES (34665, 1);
`

// newFixtureDB writes a seeded dataset file and returns its path.
func newFixtureDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seinfeld.db")

	db, err := sqlx.Connect("sqlite", path)
	require.NoError(t, err, "creating fixture database")

	_, err = db.Exec(fixtureSchema)
	require.NoError(t, err, "applying fixture schema")

	_, err = db.Exec(fixtureSeed)
	require.NoError(t, err, "seeding fixture data")

	require.NoError(t, db.Close())

	return path
}

// newTestServer wires the full stack the way cmd/seinfeldd does: library
// facade over a seeded dataset, quote service, handlers, and router.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	store, err := seinfeld.New(newFixtureDB(t))
	require.NoError(t, err)

	require.NoError(t, store.Open(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := app.NewQuoteService(app.QuoteServiceConfig{Store: store, Logger: logger})

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(ports.NewStoreChecker(store)))

	engine := gin.New()
	seinfeldhttp.SetupRouter(engine, seinfeldhttp.RouterConfig{
		Logger:         logger,
		AppConfig:      &config.AppConfig{Name: "seinfeldd-test", Environment: "test"},
		HealthHandler:  handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "unknown")),
		SeasonHandler:  handlers.NewSeasonHandler(service),
		EpisodeHandler: handlers.NewEpisodeHandler(service),
		QuoteHandler:   handlers.NewQuoteHandler(handlers.QuoteHandlerConfig{Service: service}),
	})

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	return server
}

// getJSON performs a GET and decodes the response body into out.
func getJSON(t *testing.T, server *httptest.Server, path string, out any) int {
	t.Helper()

	resp, err := server.Client().Get(server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), "decoding %s: %s", path, body)
	}

	return resp.StatusCode
}

func TestAPI_Readiness(t *testing.T) {
	server := newTestServer(t)

	var body map[string]any
	status := getJSON(t, server, "/-/ready", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestAPI_GetSeason(t *testing.T) {
	server := newTestServer(t)

	var body struct {
		Number   int `json:"number"`
		Episodes []struct {
			ID    int    `json:"id"`
			Title string `json:"title"`
		} `json:"episodes"`
	}
	status := getJSON(t, server, "/api/v1/seasons/4", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4, body.Number)
	require.Len(t, body.Episodes, 1)
	assert.Equal(t, "The Pitch", body.Episodes[0].Title)
}

func TestAPI_GetSeason_NotFound(t *testing.T) {
	server := newTestServer(t)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	status := getJSON(t, server, "/api/v1/seasons/9", &body)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestAPI_ListEpisodes(t *testing.T) {
	server := newTestServer(t)

	var body struct {
		Episodes []struct {
			ID     int `json:"id"`
			Season int `json:"season"`
		} `json:"episodes"`
	}
	status := getJSON(t, server, "/api/v1/episodes", &body)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body.Episodes, 2)

	status = getJSON(t, server, "/api/v1/episodes?season=4", &body)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body.Episodes, 1)
	assert.Equal(t, 10, body.Episodes[0].ID)
}

func TestAPI_GetEpisodeQuotes(t *testing.T) {
	server := newTestServer(t)

	var body struct {
		Quotes []struct {
			ID       int    `json:"id"`
			Sequence int    `json:"sequence"`
			Text     string `json:"text"`
		} `json:"quotes"`
	}
	status := getJSON(t, server, "/api/v1/episodes/10/quotes", &body)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body.Quotes, 6)
	assert.Equal(t, "So, we go into NBC.", body.Quotes[0].Text)
}

func TestAPI_GetQuote_ResolvesReferences(t *testing.T) {
	server := newTestServer(t)

	var body struct {
		ID      int    `json:"id"`
		Text    string `json:"text"`
		Speaker struct {
			Name string `json:"name"`
		} `json:"speaker"`
		Episode struct {
			Title string `json:"title"`
		} `json:"episode"`
	}
	status := getJSON(t, server, "/api/v1/quotes/34665", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "The show is about nothing.", body.Text)
	assert.Equal(t, "George", body.Speaker.Name)
	assert.Equal(t, "The Pitch", body.Episode.Title)
}

func TestAPI_SearchQuotes(t *testing.T) {
	server := newTestServer(t)

	var body struct {
		Quotes []struct {
			ID int `json:"id"`
		} `json:"quotes"`
	}

	status := getJSON(t, server, "/api/v1/quotes?speaker=george", &body)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body.Quotes, 3)

	status = getJSON(t, server, "/api/v1/quotes?subject=nothing", &body)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body.Quotes, 1)
	assert.Equal(t, 34665, body.Quotes[0].ID)

	status = getJSON(t, server, "/api/v1/quotes?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPI_RandomQuote(t *testing.T) {
	server := newTestServer(t)

	var body struct {
		ID   int    `json:"id"`
		Text string `json:"text"`
	}
	status := getJSON(t, server, "/api/v1/quotes/random?speaker=jerry", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.NotZero(t, body.ID)
	assert.NotEmpty(t, body.Text)
}

func TestAPI_GetPassage(t *testing.T) {
	server := newTestServer(t)

	var body struct {
		QuoteID int `json:"quoteId"`
		Quotes  []struct {
			ID   int    `json:"id"`
			Text string `json:"text"`
		} `json:"quotes"`
	}
	status := getJSON(t, server, "/api/v1/quotes/34663/passage?length=3", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 34663, body.QuoteID)
	require.Len(t, body.Quotes, 3)
	assert.Equal(t, 34662, body.Quotes[0].ID)
	assert.Equal(t, 34664, body.Quotes[2].ID)

	status = getJSON(t, server, "/api/v1/quotes/34663/passage?length=0", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
