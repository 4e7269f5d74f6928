package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kasi-noc/incident-tickets/internal/domain"
	"github.com/kasi-noc/incident-tickets/internal/persistence"
	"github.com/kasi-noc/incident-tickets/pkg/csvtable"
)

type backend struct {
	tickets TicketTable
	history TicketHistoryRepository
}

func backends(t *testing.T) map[string]func(t *testing.T) backend {
	t.Helper()
	return map[string]func(t *testing.T) backend{
		"memory": func(t *testing.T) backend {
			return backend{tickets: NewMemoryTicketTable(), history: NewMemoryHistoryRepository()}
		},
		"csv": func(t *testing.T) backend {
			dir := t.TempDir()
			return backend{
				tickets: NewCSVTicketTable(filepath.Join(dir, "tickets.csv")),
				history: NewCSVHistoryRepository(filepath.Join(dir, "ticket_history.csv")),
			}
		},
		"redis": func(t *testing.T) backend {
			addr := os.Getenv("TEST_REDIS_ADDR")
			if addr == "" {
				t.Skip("TEST_REDIS_ADDR not set")
			}
			client := redis.NewClient(&redis.Options{Addr: addr})
			prefix := "test-" + uuid.NewString()
			t.Cleanup(func() {
				client.Del(context.Background(), prefix+":tickets", prefix+":history")
				_ = client.Close()
			})
			return backend{
				tickets: NewRedisTicketTable(client, prefix),
				history: NewRedisHistoryRepository(client, prefix),
			}
		},
		"postgres": func(t *testing.T) backend {
			dsn := os.Getenv("TEST_POSTGRES_DSN")
			if dsn == "" {
				t.Skip("TEST_POSTGRES_DSN not set")
			}
			ctx := context.Background()
			pool, err := pgxpool.New(ctx, dsn)
			require.NoError(t, err)
			t.Cleanup(pool.Close)
			require.NoError(t, persistence.RunMigrations(ctx, pool, filepath.Join("..", "..", "migrations"), zap.NewNop()))
			_, err = pool.Exec(ctx, `TRUNCATE incident_tickets, incident_ticket_history`)
			require.NoError(t, err)
			return backend{
				tickets: NewPostgresTicketTable(pool),
				history: NewPostgresHistoryRepository(pool),
			}
		},
	}
}

func sampleTicket(id, category string) domain.Ticket {
	return domain.Ticket{
		TicketID:    id,
		Category:    category,
		Building:    "LOS2",
		Description: `UPS "B" alarm, bypass engaged`,
		AssignedTo:  "Jesse Etuk;Opeyemi Akintelure",
		PostReview:  domain.FlagNo,
		SLABreach:   domain.FlagYes,
	}
}

func TestTicketTableContract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			b := open(t)

			empty, err := b.tickets.LoadAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty)

			first := sampleTicket("A-1", "Power")
			second := sampleTicket("A-2", "Network")
			require.NoError(t, b.tickets.Append(ctx, first))
			require.NoError(t, b.tickets.Append(ctx, second))

			loaded, err := b.tickets.LoadAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []domain.Ticket{first, second}, loaded)

			second.Status = string(domain.TicketStatusClosed)
			third := sampleTicket("A-3", "Cooling")
			require.NoError(t, b.tickets.SaveAll(ctx, []domain.Ticket{second, third}))

			loaded, err = b.tickets.LoadAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []domain.Ticket{second, third}, loaded)

			exported, err := b.tickets.Export(ctx)
			require.NoError(t, err)
			tbl := csvtable.Decode(string(exported))
			assert.Equal(t, domain.TicketColumns, tbl.Header)
			require.Len(t, tbl.Records, 2)
			assert.Equal(t, second, domain.TicketFromRecord(tbl.Records[0]))
			assert.Equal(t, third, domain.TicketFromRecord(tbl.Records[1]))

			require.NoError(t, b.tickets.SaveAll(ctx, nil))
			loaded, err = b.tickets.LoadAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, loaded)
		})
	}
}

func TestHistoryContract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			b := open(t)

			entries := []domain.TicketHistory{
				{TicketID: "A-1", Timestamp: "2024-01-01T00:00:00.000Z", Action: domain.HistoryActionCreate, Changes: `{"category":"Power"}`, Editor: "ops"},
				{TicketID: "A-2", Timestamp: "2024-01-01T00:01:00.000Z", Action: domain.HistoryActionCreate, Changes: `{}`},
				{TicketID: "A-1", Timestamp: "2024-01-01T00:02:00.000Z", Action: domain.HistoryActionUpdate, Changes: `{"status":"Closed","note":"a, \"b\""}`, Editor: "ops"},
			}
			for _, e := range entries {
				require.NoError(t, b.history.Append(ctx, e))
			}

			got, err := b.history.ListByTicket(ctx, "A-1")
			require.NoError(t, err)
			assert.Equal(t, []domain.TicketHistory{entries[0], entries[2]}, got)

			none, err := b.history.ListByTicket(ctx, "missing")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestCSVAppendFollowsHeaderOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.csv")
	require.NoError(t, os.WriteFile(path, []byte("ticket_id,status,category\n\"OLD-1\",\"Open\",\"Power\""), 0o644))

	table := NewCSVTicketTable(path)
	require.NoError(t, table.Append(context.Background(), domain.Ticket{TicketID: "NEW-1", Category: "Server", Status: "Open"}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"ticket_id,status,category\n\"OLD-1\",\"Open\",\"Power\"\n\"NEW-1\",\"Open\",\"Server\"\n",
		string(content))

	loaded, err := table.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Power", loaded[0].Category)
	assert.Equal(t, "Server", loaded[1].Category)
}

func TestCSVMissingFiles(t *testing.T) {
	dir := t.TempDir()
	table := NewCSVTicketTable(filepath.Join(dir, "tickets.csv"))

	exported, err := table.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, csvtable.EncodeHeader(domain.TicketColumns)+"\n", string(exported))

	history := NewCSVHistoryRepository(filepath.Join(dir, "ticket_history.csv"))
	entries, err := history.ListByTicket(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCSVReadFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	table := NewCSVTicketTable(dir)

	_, err := table.LoadAll(context.Background())
	assert.Error(t, err)
}

func TestCSVAppendFailureIsReported(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	history := NewCSVHistoryRepository("/dev/full")

	err := history.Append(context.Background(), domain.TicketHistory{TicketID: "KASI-LOS1-20240520-NET-0001", Action: domain.HistoryActionCreate})
	assert.Error(t, err)
}
