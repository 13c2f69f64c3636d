package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	return NewSQLStore(sqlx.NewDb(db, "postgres"), logger), mock
}

func TestSQLStore_Get(t *testing.T) {
	s, mock := newTestSQLStore(t)

	value, err := json.Marshal([]string{"a", "b"})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"value"}).AddRow(value)
	mock.ExpectQuery("SELECT value FROM hotel_state").
		WithArgs(KeyTodayArrivals).
		WillReturnRows(rows)

	var out []string
	require.NoError(t, s.Get(KeyTodayArrivals, &out))
	assert.Equal(t, []string{"a", "b"}, out)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_GetMissingKey(t *testing.T) {
	s, mock := newTestSQLStore(t)

	mock.ExpectQuery("SELECT value FROM hotel_state").
		WithArgs(KeyTodayArrivals).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	out := []string{"seeded"}
	require.NoError(t, s.Get(KeyTodayArrivals, &out))
	assert.Equal(t, []string{"seeded"}, out)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_GetQueryError(t *testing.T) {
	s, mock := newTestSQLStore(t)

	mock.ExpectQuery("SELECT value FROM hotel_state").
		WithArgs(KeyTodayArrivals).
		WillReturnError(fmt.Errorf("connection reset"))

	var out []string
	err := s.Get(KeyTodayArrivals, &out)
	require.Error(t, err)

	var storageErr *StorageError
	assert.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "get", storageErr.Op)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_GetUndeserializableValue(t *testing.T) {
	s, mock := newTestSQLStore(t)

	rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte("not json"))
	mock.ExpectQuery("SELECT value FROM hotel_state").
		WithArgs(KeyTodayArrivals).
		WillReturnRows(rows)

	var out []string
	require.NoError(t, s.Get(KeyTodayArrivals, &out))
	assert.Nil(t, out)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_SetUpserts(t *testing.T) {
	s, mock := newTestSQLStore(t)

	mock.ExpectExec("INSERT INTO hotel_state").
		WithArgs(KeyCurrentlyInHouse, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Set(KeyCurrentlyInHouse, []string{"guest"}))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_UpdateCommits(t *testing.T) {
	s, mock := newTestSQLStore(t)

	value, err := json.Marshal([]int{1})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT value FROM hotel_state (.+) FOR UPDATE").
		WithArgs(KeyTodayArrivals).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(value))
	mock.ExpectExec("INSERT INTO hotel_state").
		WithArgs(KeyTodayArrivals, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = s.Update(func(tx Tx) error {
		var arrivals []int
		if err := tx.Get(KeyTodayArrivals, &arrivals); err != nil {
			return err
		}
		arrivals = append(arrivals, 2)
		return tx.Set(KeyTodayArrivals, arrivals)
	})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_UpdateRollsBackOnError(t *testing.T) {
	s, mock := newTestSQLStore(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("transition rejected")
	err := s.Update(func(tx Tx) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_Ping(t *testing.T) {
	s, _ := newTestSQLStore(t)
	assert.NoError(t, s.Ping())
}

func TestSQLStore_PingError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	s := NewSQLStore(sqlx.NewDb(db, "postgres"), logger)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err = s.Ping()
	require.Error(t, err)
	var storageErr *StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "ping", storageErr.Op)
}
