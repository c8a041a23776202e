package pgmq

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendReturnsMessageID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT pgmq.send\(\$1, \$2::jsonb, 0\)`).
		WithArgs("media_queue", `{"media_id":"m1"}`).
		WillReturnRows(sqlmock.NewRows([]string{"send"}).AddRow(int64(42)))

	id, err := NewQueue(db, "media_queue").Send(context.Background(), []byte(`{"media_id":"m1"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadWithPoll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT msg_id, read_ct, message FROM pgmq.read_with_poll`).
		WithArgs("media_queue", 60, 1, 30).
		WillReturnRows(sqlmock.NewRows([]string{"msg_id", "read_ct", "message"}).
			AddRow(int64(7), 2, []byte(`{"media_id":"m1"}`)))

	msgs, err := NewQueue(db, "media_queue").ReadWithPoll(context.Background(), 60, 30, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(7), msgs[0].ID)
	assert.Equal(t, 2, msgs[0].ReadCt)
	assert.JSONEq(t, `{"media_id":"m1"}`, string(msgs[0].Data))
}

func TestDeleteAndArchive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`SELECT pgmq.delete`).WithArgs("q", int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT pgmq.archive`).WithArgs("q", int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))

	q := NewQueue(db, "q")
	require.NoError(t, q.Delete(context.Background(), 1))
	require.NoError(t, q.Archive(context.Background(), 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
