package postgres

import (
	"context"
	"testing"
	"testing/fstest"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func TestRunMigrations_AppliesPendingInOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	files := fstest.MapFS{
		"002_indexes.up.sql": {Data: []byte("CREATE INDEX b ON t (b)")},
		"001_init.up.sql":    {Data: []byte("CREATE TABLE t (a int, b int)")},
		"001_init.down.sql":  {Data: []byte("DROP TABLE t")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("001_init.up.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("002_indexes.up.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE INDEX b").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("002_indexes.up.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, RunMigrations(context.Background(), mock, files, logger.Nop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrations_EmbedsInitialSchema(t *testing.T) {
	data, err := Migrations().Open("001_init.up.sql")
	require.NoError(t, err)
	defer data.Close()
	info, err := data.Stat()
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
