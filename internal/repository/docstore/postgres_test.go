package docstore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// fakeDB answers the three statements PostgresStore issues from a map.
type fakeDB struct {
	mu     sync.Mutex
	rows   map[string][]byte
	schema bool
	fail   error
}

type fakeRow struct {
	value []byte
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = append([]byte(nil), r.value...)
	return nil
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return pgconn.CommandTag{}, f.fail
	}

	switch stmt := strings.TrimSpace(sql); {
	case strings.HasPrefix(stmt, "CREATE TABLE"):
		f.schema = true
		return pgconn.NewCommandTag("CREATE TABLE"), nil
	case strings.HasPrefix(stmt, "INSERT"):
		f.rows[args[0].(string)] = []byte(args[1].(string))
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.HasPrefix(stmt, "DELETE"):
		delete(f.rows, args[0].(string))
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.CommandTag{}, errors.New("unexpected statement")
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return fakeRow{err: f.fail}
	}
	v, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: v}
}

func TestPostgresStore(t *testing.T) {
	db := &fakeDB{rows: map[string][]byte{}}
	store := NewPostgresStore(db)

	require.NoError(t, store.EnsureSchema(context.Background()))
	require.True(t, db.schema)
	exerciseStore(t, store)
}

func TestPostgresStoreWrapsDriverErrors(t *testing.T) {
	boom := errors.New("connection reset")
	store := NewPostgresStore(&fakeDB{rows: map[string][]byte{}, fail: boom})
	ctx := context.Background()

	_, err := store.Get(ctx, "orders")
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, store.Put(ctx, "orders", []byte(`[]`)), boom)
	require.ErrorIs(t, store.EnsureSchema(ctx), boom)
}
