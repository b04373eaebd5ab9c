package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSequenceNext(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT nextval('consignment_sr_no_seq')")).
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(int64(18)))

	n, err := NewPostgresSequence(db).Next(context.Background(), ConsignmentSerial)
	require.NoError(t, err)
	assert.Equal(t, int64(18), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSequenceSeedAtLeast(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("SELECT setval('consignment_sr_no_seq', GREATEST($1, (SELECT last_value FROM consignment_sr_no_seq)))")).
		WithArgs(int64(250)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	seq := NewPostgresSequence(db)
	require.NoError(t, seq.SeedAtLeast(context.Background(), ConsignmentSerial, 250))
	require.NoError(t, seq.SeedAtLeast(context.Background(), ConsignmentSerial, 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSequenceRejectsUnsafeNames(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewPostgresSequence(db).Next(context.Background(), "x'); DROP TABLE users; --")
	assert.Error(t, err)
}
