package clsubscribers

import (
	"neuronet/internal/clerrors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&mode=memory"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&EmailSubscription{}))
	require.NoError(t, db.Exec("DELETE FROM email_subscriptions").Error)
	return NewService(db)
}

func TestSubscribe(t *testing.T) {
	svc := newTestService(t)

	sub, err := svc.Subscribe("Client@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "client@example.com", sub.Email)
	assert.True(t, sub.IsActive)
}

func TestSubscribeDuplicateConflict(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Subscribe("client@example.com")
	require.NoError(t, err)

	// La deuxième inscription doit échouer proprement, jamais planter
	_, err = svc.Subscribe("client@example.com")
	require.Error(t, err)
	assert.True(t, clerrors.IsKind(err, clerrors.KindConflict))
}

func TestSubscribeInvalidEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Subscribe("pas-un-email")
	require.Error(t, err)
	assert.True(t, clerrors.IsKind(err, clerrors.KindValidation))
}

func TestUnsubscribeRoundTrip(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Subscribe("client@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe("client@example.com"))

	active, err := svc.Active()
	require.NoError(t, err)
	assert.Empty(t, active)

	// La réinscription d'une adresse désinscrite réactive la ligne
	sub, err := svc.Subscribe("client@example.com")
	require.NoError(t, err)
	assert.True(t, sub.IsActive)

	active, err = svc.Active()
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestUnsubscribeUnknownIsNoop(t *testing.T) {
	svc := newTestService(t)
	assert.NoError(t, svc.Unsubscribe("inconnu@example.com"))
}

func TestMarkSent(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Subscribe("client@example.com")
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, svc.MarkSent("client@example.com", now))

	subs, err := svc.Active()
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].LastEmailSent)
	assert.WithinDuration(t, now, *subs[0].LastEmailSent, time.Second)
}

func TestActiveOldestFirst(t *testing.T) {
	svc := newTestService(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Subscribe(email)
		require.NoError(t, err)
	}
	require.NoError(t, svc.Unsubscribe("b@example.com"))

	active, err := svc.Active()
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "a@example.com", active[0].Email)
	assert.Equal(t, "c@example.com", active[1].Email)
}
