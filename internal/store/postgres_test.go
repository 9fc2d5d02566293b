package store_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/scythe504/sketchparty/internal"
	"github.com/scythe504/sketchparty/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var repo *store.PostgresRepo

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testusername"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "postgres container unavailable: %v\n", err)
		os.Exit(m.Run())
	}

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}
	repo, err = store.NewPostgresRepo(ctx, connString)
	if err != nil {
		panic(err)
	}
	if err := repo.Migrate(ctx); err != nil {
		panic(err)
	}

	code := m.Run()

	repo.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func requireRepo(t *testing.T) {
	t.Helper()
	if repo == nil {
		t.Skip("postgres not available")
	}
}

func TestPostgresRepo(t *testing.T) {
	requireRepo(t)
	ctx := context.Background()

	first := internal.FinalResults{
		RoomID:   "AAAAAA",
		RoomName: "first",
		Leaderboard: []internal.GameResultData{
			{PlayerID: "p1", Username: "alice", Score: 120, Position: 1},
			{PlayerID: "p2", Username: "bob", Score: 40, Position: 2},
		},
		RoundsPlayed: 3,
		TotalPlayers: 2,
	}
	first.MVP = &first.Leaderboard[0]

	t.Run("Migrate is idempotent", func(t *testing.T) {
		assert.NoError(t, repo.Migrate(ctx))
	})

	t.Run("RecordGame", func(t *testing.T) {
		id, err := repo.RecordGame(ctx, first)
		require.NoError(t, err)
		assert.Positive(t, id)
	})

	t.Run("RecordGame without MVP", func(t *testing.T) {
		_, err := repo.RecordGame(ctx, internal.FinalResults{RoomID: "BBBBBB", RoomName: "second"})
		require.NoError(t, err)
	})

	t.Run("RecentResults newest first", func(t *testing.T) {
		records, err := repo.RecentResults(ctx, 10)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(records), 2)

		assert.Equal(t, "BBBBBB", records[0].RoomID)
		assert.Empty(t, records[0].MVPID)
		assert.Empty(t, records[0].Leaderboard)

		assert.Equal(t, "AAAAAA", records[1].RoomID)
		assert.Equal(t, "p1", records[1].MVPID)
		assert.Equal(t, first.Leaderboard, records[1].Leaderboard)
		assert.Equal(t, 3, records[1].RoundsPlayed)
		assert.False(t, records[1].FinishedAt.IsZero())
	})

	t.Run("RecentResults limit", func(t *testing.T) {
		records, err := repo.RecentResults(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("Cancelled context is returned as is", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.RecentResults(cctx, 1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrUnexpectedDatabase)
	})
}
