package sqlite_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mysite/internal/domain/entity"
	"mysite/internal/infra/adapter/persistence/sqlite"
)

func TestChoiceRepo_CreateAndList(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewChoiceRepo(conn)
	q := mustCreateQuestion(t, conn, "What's up?", time.Now())

	for _, text := range []string{"Not much", "The sky"} {
		require.NoError(t, repo.Create(ctx, &entity.Choice{QuestionID: q.ID, ChoiceText: text}))
	}

	got, err := repo.ListByQuestion(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Not much", got[0].ChoiceText)
	assert.Equal(t, "The sky", got[1].ChoiceText)
	assert.Equal(t, 0, got[0].Votes)
}

func TestChoiceRepo_Create_UnknownQuestion(t *testing.T) {
	repo := sqlite.NewChoiceRepo(newTestDB(t))

	err := repo.Create(context.Background(), &entity.Choice{QuestionID: 999, ChoiceText: "orphan"})
	assert.Error(t, err, "foreign keys must be enforced")
}

func TestChoiceRepo_IncrementVotes(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewChoiceRepo(conn)
	q := mustCreateQuestion(t, conn, "first", time.Now())
	other := mustCreateQuestion(t, conn, "second", time.Now())

	c := &entity.Choice{QuestionID: q.ID, ChoiceText: "yes"}
	require.NoError(t, repo.Create(ctx, c))

	ok, err := repo.IncrementVotes(ctx, q.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IncrementVotes(ctx, other.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, ok, "choice of another question must not be counted")

	ok, err = repo.IncrementVotes(ctx, q.ID, c.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.ListByQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].Votes)
}

func TestChoiceRepo_IncrementVotes_Concurrent(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewChoiceRepo(conn)
	q := mustCreateQuestion(t, conn, "race", time.Now())
	c := &entity.Choice{QuestionID: q.ID, ChoiceText: "yes"}
	require.NoError(t, repo.Create(ctx, c))

	const voters = 20
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementVotes(ctx, q.ID, c.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.ListByQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, voters, got[0].Votes)
}
