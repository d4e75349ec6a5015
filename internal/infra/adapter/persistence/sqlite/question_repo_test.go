package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mysite/internal/domain/entity"
	"mysite/internal/infra/adapter/persistence/sqlite"
	"mysite/internal/infra/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, ":memory:", db.DefaultConnectionConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.MigrateUp(ctx, conn, db.DriverSQLite))
	return conn
}

func mustCreateQuestion(t *testing.T, conn *sql.DB, text string, pub time.Time) *entity.Question {
	t.Helper()
	q := &entity.Question{QuestionText: text, PubDate: pub}
	require.NoError(t, sqlite.NewQuestionRepo(conn).Create(context.Background(), q))
	return q
}

func TestQuestionRepo_CreateAndGet(t *testing.T) {
	conn := newTestDB(t)
	repo := sqlite.NewQuestionRepo(conn)
	ctx := context.Background()

	jst := time.FixedZone("JST", 9*60*60)
	pub := time.Date(2025, 7, 19, 9, 30, 0, 123456789, jst)
	q := &entity.Question{QuestionText: "What's up?", PubDate: pub}
	require.NoError(t, repo.Create(ctx, q))
	assert.NotZero(t, q.ID)

	got, err := repo.Get(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "What's up?", got.QuestionText)
	assert.True(t, got.PubDate.Equal(pub), "pub_date round trip: got %v want %v", got.PubDate, pub)
	assert.Equal(t, time.UTC, got.PubDate.Location())
}

func TestQuestionRepo_Get_NotFound(t *testing.T) {
	repo := sqlite.NewQuestionRepo(newTestDB(t))

	got, err := repo.Get(context.Background(), 404)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestQuestionRepo_ListPublished(t *testing.T) {
	conn := newTestDB(t)
	repo := sqlite.NewQuestionRepo(conn)
	now := time.Date(2025, 7, 19, 12, 0, 0, 0, time.UTC)

	mustCreateQuestion(t, conn, "future", now.Add(time.Second))
	mustCreateQuestion(t, conn, "now", now)
	mustCreateQuestion(t, conn, "yesterday", now.AddDate(0, 0, -1))
	mustCreateQuestion(t, conn, "last year", now.AddDate(-1, 0, 0))
	mustCreateQuestion(t, conn, "last week", now.AddDate(0, 0, -7))

	got, err := repo.ListPublished(context.Background(), now, 3)
	require.NoError(t, err)

	texts := make([]string, 0, len(got))
	for _, q := range got {
		texts = append(texts, q.QuestionText)
	}
	if diff := cmp.Diff([]string{"now", "yesterday", "last week"}, texts); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestQuestionRepo_ListPublished_Empty(t *testing.T) {
	repo := sqlite.NewQuestionRepo(newTestDB(t))

	got, err := repo.ListPublished(context.Background(), time.Now(), 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQuestionRepo_ListPaginatedAndCount(t *testing.T) {
	conn := newTestDB(t)
	repo := sqlite.NewQuestionRepo(conn)
	ctx := context.Background()
	now := time.Date(2025, 7, 19, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		mustCreateQuestion(t, conn, "q", now.AddDate(0, 0, i-2))
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	page, err := repo.ListPaginated(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].PubDate.Equal(now.AddDate(0, 0, 2)), "future questions are listed first")

	last, err := repo.ListPaginated(ctx, 4, 2)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.True(t, last[0].PubDate.Equal(now.AddDate(0, 0, -2)))

	recent, err := repo.CountPublishedSince(ctx, now.Add(-entity.RecencyWindow), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), recent)
}

func TestQuestionRepo_Delete(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()
	questions := sqlite.NewQuestionRepo(conn)
	choices := sqlite.NewChoiceRepo(conn)

	q := mustCreateQuestion(t, conn, "doomed", time.Now())
	require.NoError(t, choices.Create(ctx, &entity.Choice{QuestionID: q.ID, ChoiceText: "a"}))

	require.NoError(t, questions.Delete(ctx, q.ID))

	got, err := questions.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	remaining, err := choices.ListByQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	err = questions.Delete(ctx, q.ID)
	assert.True(t, errors.Is(err, entity.ErrNotFound), "second delete: %v", err)
}

func TestQuestionRepo_CreateWithChoices(t *testing.T) {
	conn := newTestDB(t)
	repo := sqlite.NewQuestionRepo(conn)
	ctx := context.Background()

	q := &entity.Question{QuestionText: "What's new?", PubDate: time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)}
	choices := []*entity.Choice{{ChoiceText: "Not much"}, {ChoiceText: "The sky"}}
	require.NoError(t, repo.CreateWithChoices(ctx, q, choices))

	assert.NotZero(t, q.ID)
	stored, err := sqlite.NewChoiceRepo(conn).ListByQuestion(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for i, c := range choices {
		assert.Equal(t, q.ID, c.QuestionID)
		assert.Equal(t, stored[i].ID, c.ID)
	}
}

func TestQuestionRepo_CreateWithChoices_RollsBack(t *testing.T) {
	conn := newTestDB(t)
	repo := sqlite.NewQuestionRepo(conn)
	ctx := context.Background()

	q := &entity.Question{QuestionText: "Half written", PubDate: time.Now()}
	// the second insert violates CHECK (votes >= 0)
	choices := []*entity.Choice{{ChoiceText: "ok"}, {ChoiceText: "bad", Votes: -1}}
	err := repo.CreateWithChoices(ctx, q, choices)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "choice 1")
	assert.Zero(t, q.ID, "IDs are only assigned after commit")

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "no question may survive a failed choice insert")

	var choiceRows int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM polls_choice`).Scan(&choiceRows))
	assert.Zero(t, choiceRows)
}
