package seinfeld

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSchema mirrors the dataset schema the library reads. The library
// itself never creates or migrates it.
const testSchema = `
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

const testSeed = `
INSERT INTO seasons (number) VALUES (1), (2), (4);

INSERT INTO episodes (id, season_number, episode_number, title, air_date, writers, directors) VALUES
    (1,  1, 1, 'Good News, Bad News', '1989-07-05', 'Larry David, Jerry Seinfeld', 'Art Wolff'),
    (2,  1, 2, 'The Stake Out',       '1990-05-31', 'Larry David, Jerry Seinfeld', 'Tom Cherones'),
    (6,  2, 1, 'The Ex-Girlfriend',   '1991-01-23', 'Larry David, Jerry Seinfeld', 'Tom Cherones'),
    (10, 4, 3, 'The Pitch',           '1992-09-16', 'Larry David',                 'Tom Cherones');

INSERT INTO speakers (id, name) VALUES
    (1, 'Jerry'),
    (2, 'George'),
    (3, 'Elaine'),
    (4, 'Kramer');

-- Episode 1 positions are deliberately sparse.
INSERT INTO quotes (id, episode_id, speaker_id, position, text) VALUES
    (101, 1,  1, 2,  'Do you know what this is all about?'),
    (102, 1,  2, 5,  'Are you through?'),
    (103, 1,  1, 9,  'There is no parking anywhere near here.'),
    (104, 1,  4, 14, 'You got the parking ticket anyway.'),
    (301, 6,  3, 1,  'I have a a male friend.'),
    (34661, 10, 1, 1, 'So, we go into NBC.'),
    (34662, 10, 2, 2, 'Yeah, I think we really got something here.'),
    (34663, 10, 1, 3, 'What do we got?'),
    (34664, 10, 2, 4, 'An idea.'),
    (34665, 10, 2, 5, 'The show is about nothing.'),
    (34666, 10, 1, 6, 'Right.');

INSERT INTO subjects (id, label) VALUES
    (1, 'parking'),
    (2, 'nothing'),
    (3, 'television');

INSERT INTO quote_subjects (quote_id, subject_id) VALUES
    (103, 1),
    (104, 1),
    (34661, 3),
    (34665, 2),
    (34665, 3);
`

// newTestDB writes a seeded dataset file and returns its path.
func newTestDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seinfeld.db")

	db, err := sqlx.Connect("sqlite", path)
	require.NoError(t, err, "creating fixture database")

	_, err = db.Exec(testSchema)
	require.NoError(t, err, "applying fixture schema")

	_, err = db.Exec(testSeed)
	require.NoError(t, err, "seeding fixture data")

	require.NoError(t, db.Close())

	return path
}

// newTestFacade returns an open facade over a seeded dataset.
func newTestFacade(t *testing.T, opts ...Option) *Seinfeld {
	t.Helper()

	s, err := New(newTestDB(t), opts...)
	require.NoError(t, err)

	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestNew_PathMustExist(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestNew_PathMustBeFile(t *testing.T) {
	_, err := New(t.TempDir())
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestSeinfeld_NotConnected(t *testing.T) {
	s, err := New(newTestDB(t))
	require.NoError(t, err)

	ctx := context.Background()

	_, err = s.Quote(ctx, 34665)
	assert.True(t, IsNotConnected(err), "query before Open: %v", err)

	require.NoError(t, s.Open(ctx))
	require.NoError(t, s.Close())

	_, err = s.Season(ctx, 1)
	assert.True(t, IsNotConnected(err), "query after Close: %v", err)

	assert.True(t, IsNotConnected(s.Close()), "double close")
}

func TestSeinfeld_OpenTwice(t *testing.T) {
	s := newTestFacade(t)

	err := s.Open(context.Background())
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestWith_ClosesOnAllPaths(t *testing.T) {
	path := newTestDB(t)
	ctx := context.Background()

	var leaked *Seinfeld

	err := With(ctx, path, func(ctx context.Context, s *Seinfeld) error {
		leaked = s

		quote, err := s.Quote(ctx, 34665)
		require.NoError(t, err)
		assert.Equal(t, "The show is about nothing.", quote.Text)

		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	// The scope must have released the connection despite the error.
	_, err = leaked.Quote(ctx, 34665)
	assert.True(t, IsNotConnected(err))
}

func TestSeinfeld_Season(t *testing.T) {
	s := newTestFacade(t)
	ctx := context.Background()

	season, err := s.Season(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, season.Number)

	_, err = s.Season(ctx, 3)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestSeason_Episodes(t *testing.T) {
	s := newTestFacade(t)
	ctx := context.Background()

	season, err := s.Season(ctx, 1)
	require.NoError(t, err)

	episodes, err := season.Episodes(ctx)
	require.NoError(t, err)
	require.Len(t, episodes, 2)

	for i, episode := range episodes {
		assert.Equal(t, 1, episode.SeasonNumber)
		assert.Equal(t, i+1, episode.Number, "ordered by episode number")
	}
}

func TestSeinfeld_Episode(t *testing.T) {
	s := newTestFacade(t)
	ctx := context.Background()

	episode, err := s.Episode(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, "Good News, Bad News", episode.Title)
	assert.Equal(t, []string{"Larry David", "Jerry Seinfeld"}, episode.Writers)
	assert.Equal(t, []string{"Art Wolff"}, episode.Directors)
	assert.Equal(t, time.Date(1989, 7, 5, 0, 0, 0, 0, time.UTC), episode.AirDate)

	season, err := episode.Season(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, season.Number)

	_, err = s.Episode(ctx, 9999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestSeinfeld_Episodes_All(t *testing.T) {
	s := newTestFacade(t)

	episodes, err := s.Episodes(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, episodes, 4)

	// Ordered by (season number, episode number).
	for i := 1; i < len(episodes); i++ {
		prev, cur := episodes[i-1], episodes[i]
		ordered := prev.SeasonNumber < cur.SeasonNumber ||
			(prev.SeasonNumber == cur.SeasonNumber && prev.Number < cur.Number)
		assert.True(t, ordered, "episodes out of order at %d", i)
	}
}

func TestSeinfeld_QuoteResolvesLazily(t *testing.T) {
	s := newTestFacade(t)
	ctx := context.Background()

	quote, err := s.Quote(ctx, 34665)
	require.NoError(t, err)
	assert.Equal(t, "The show is about nothing.", quote.Text)
	assert.Equal(t, 10, quote.EpisodeID)
	assert.Equal(t, 5, quote.Position)

	episode, err := quote.Episode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "The Pitch", episode.Title)
	assert.Equal(t, quote.EpisodeID, episode.ID)

	speaker, err := quote.Speaker(ctx)
	require.NoError(t, err)
	assert.Equal(t, "George", speaker.Name)
	assert.Equal(t, quote.SpeakerID, speaker.ID)

	subjects, err := quote.Subjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"nothing", "television"}, subjects)
}

func TestSeinfeld_Quote_NotFound(t *testing.T) {
	s := newTestFacade(t)

	_, err := s.Quote(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestSeinfeld_Speaker(t *testing.T) {
	s := newTestFacade(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		lookup  string
		wantID  int
		notFind bool
	}{
		{name: "exact case", lookup: "Jerry", wantID: 1},
		{name: "lower case", lookup: "george", wantID: 2},
		{name: "upper case", lookup: "ELAINE", wantID: 3},
		{name: "unknown", lookup: "Newman", notFind: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			speaker, err := s.Speaker(ctx, tt.lookup)
			if tt.notFind {
				require.Error(t, err)
				assert.True(t, IsNotFound(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, speaker.ID)
		})
	}

	_, err := s.Speaker(ctx, "")
	assert.True(t, IsInvalidArgument(err))
}

func TestLazyAccessors_DanglingReferences(t *testing.T) {
	path := newTestDB(t)

	// Corrupt the dataset with references that resolve nowhere.
	db, err := sqlx.Connect("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO quotes (id, episode_id, speaker_id, position, text)
		VALUES (900, 777, 888, 1, 'dangling')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := New(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Open(ctx))
	defer s.Close()

	quote, err := s.Quote(ctx, 900)
	require.NoError(t, err)

	_, err = quote.Episode(ctx)
	require.Error(t, err)
	assert.True(t, IsDataIntegrity(err))
	assert.False(t, IsNotFound(err), "dangling reference must not look like a plain miss")

	_, err = quote.Speaker(ctx)
	require.Error(t, err)
	assert.True(t, IsDataIntegrity(err))
}

func TestSeinfeld_Search(t *testing.T) {
	s := newTestFacade(t)
	ctx := context.Background()

	t.Run("no filters returns all quotes in order", func(t *testing.T) {
		quotes, err := s.Search(ctx, Filters{})
		require.NoError(t, err)
		require.Len(t, quotes, 11)

		for i := 1; i < len(quotes); i++ {
			prev, cur := quotes[i-1], quotes[i]
			ordered := prev.EpisodeID < cur.EpisodeID ||
				(prev.EpisodeID == cur.EpisodeID && prev.Position < cur.Position)
			assert.True(t, ordered, "quotes out of order at %d", i)
		}
	})

	t.Run("speaker filter is case-insensitive", func(t *testing.T) {
		quotes, err := s.Search(ctx, Filters{Speaker: "jerry"})
		require.NoError(t, err)
		require.NotEmpty(t, quotes)

		for _, quote := range quotes {
			speaker, err := quote.Speaker(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Jerry", speaker.Name)
		}
	})

	t.Run("subject filter matches tag label", func(t *testing.T) {
		quotes, err := s.Search(ctx, Filters{Subject: "parking"})
		require.NoError(t, err)
		require.Len(t, quotes, 2)
		assert.Equal(t, 103, quotes[0].ID)
		assert.Equal(t, 104, quotes[1].ID)
	})

	t.Run("season filter", func(t *testing.T) {
		quotes, err := s.Search(ctx, Filters{Season: 4})
		require.NoError(t, err)
		require.Len(t, quotes, 6)
		for _, quote := range quotes {
			assert.Equal(t, 10, quote.EpisodeID)
		}
	})

	t.Run("episode filter", func(t *testing.T) {
		quotes, err := s.Search(ctx, Filters{Episode: 6})
		require.NoError(t, err)
		require.Len(t, quotes, 1)
		assert.Equal(t, 301, quotes[0].ID)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		quotes, err := s.Search(ctx, Filters{Speaker: "Kramer", Subject: "parking"})
		require.NoError(t, err)
		require.Len(t, quotes, 1)
		assert.Equal(t, 104, quotes[0].ID)
	})

	t.Run("limit caps results", func(t *testing.T) {
		quotes, err := s.Search(ctx, Filters{Limit: 3})
		require.NoError(t, err)
		assert.Len(t, quotes, 3)
	})

	t.Run("reverse flips ordering", func(t *testing.T) {
		quotes, err := s.Search(ctx, Filters{Reverse: true})
		require.NoError(t, err)
		require.NotEmpty(t, quotes)
		assert.Equal(t, 34666, quotes[0].ID)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		quotes, err := s.Search(ctx, Filters{Speaker: "Newman"})
		require.NoError(t, err)
		assert.Empty(t, quotes)
	})

	t.Run("negative filter values are rejected", func(t *testing.T) {
		_, err := s.Search(ctx, Filters{Season: -1})
		assert.True(t, IsInvalidArgument(err))

		_, err = s.Search(ctx, Filters{Limit: -5})
		assert.True(t, IsInvalidArgument(err))
	})
}

func TestSeinfeld_Search_SubstringSubjects(t *testing.T) {
	s := newTestFacade(t, WithSubjectMatch(MatchSubstring))
	ctx := context.Background()

	quotes, err := s.Search(ctx, Filters{Subject: "tele"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	// Quote 34665 carries two tags matching nothing here; a broader pattern
	// must still not duplicate it.
	quotes, err = s.Search(ctx, Filters{Subject: "n"})
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, quote := range quotes {
		assert.False(t, seen[quote.ID], "quote %d returned twice", quote.ID)
		seen[quote.ID] = true
	}
}

func TestSeinfeld_Random(t *testing.T) {
	s := newTestFacade(t)
	ctx := context.Background()

	t.Run("matches carry the filtered tag", func(t *testing.T) {
		for range 10 {
			quote, err := s.Random(ctx, Filters{Subject: "parking"})
			require.NoError(t, err)

			subjects, err := quote.Subjects(ctx)
			require.NoError(t, err)
			assert.Contains(t, subjects, "parking")
		}
	})

	t.Run("speaker filter", func(t *testing.T) {
		quote, err := s.Random(ctx, Filters{Speaker: "jerry"})
		require.NoError(t, err)
		assert.Equal(t, 1, quote.SpeakerID)
	})

	t.Run("zero matches fail with not found", func(t *testing.T) {
		_, err := s.Random(ctx, Filters{Subject: "yada yada"})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}
