package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplog/triplog-backend/internal/store"
	"github.com/triplog/triplog-backend/types"
)

func TestNotificationStore_CreateNotification(t *testing.T) {
	mock, cleanup := createMockPool(t)
	defer cleanup()

	s := NewNotificationStore(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO notifications`)).
		WithArgs("user-1", types.SeverityError, "여행지 정보 저장에 실패했습니다.").
		WillReturnRows(pgxmock.NewRows([]string{"id", "read", "created_at"}).
			AddRow("notif-1", false, now))

	n := &types.Notification{
		UserID:   "user-1",
		Severity: types.SeverityError,
		Message:  "여행지 정보 저장에 실패했습니다.",
	}
	id, err := s.CreateNotification(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, "notif-1", id)
	assert.Equal(t, "notif-1", n.ID)
	assert.False(t, n.Read)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_ListByUser(t *testing.T) {
	mock, cleanup := createMockPool(t)
	defer cleanup()

	s := NewNotificationStore(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM notifications`)).
		WithArgs("user-1", 20).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "severity", "message", "read", "created_at"}).
			AddRow("notif-2", "user-1", types.SeverityWarning, "사진 업로드에 실패했습니다.", false, now).
			AddRow("notif-1", "user-1", types.SeverityError, "후기 저장에 실패했습니다.", true, now.Add(-time.Minute)))

	notifs, err := s.ListByUser(context.Background(), "user-1", 20)
	require.NoError(t, err)
	require.Len(t, notifs, 2)
	assert.Equal(t, "notif-2", notifs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_MarkRead(t *testing.T) {
	mock, cleanup := createMockPool(t)
	defer cleanup()

	s := NewNotificationStore(mock)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET read`)).
		WithArgs("notif-1", "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.MarkRead(context.Background(), "notif-1", "user-1"))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET read`)).
		WithArgs("notif-1", "other-user").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.MarkRead(context.Background(), "notif-1", "other-user")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
