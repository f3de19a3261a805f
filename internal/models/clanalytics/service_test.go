package clanalytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *AnalyticsService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&mode=memory"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&PageView{}, &Interaction{}, &ChatbotSession{}))
	// Tables voisines consultées par le tableau de bord
	require.NoError(t, db.Exec("CREATE TABLE IF NOT EXISTS contacts (id INTEGER PRIMARY KEY, created_at DATETIME)").Error)
	require.NoError(t, db.Exec("CREATE TABLE IF NOT EXISTS email_subscriptions (id INTEGER PRIMARY KEY, is_active BOOLEAN, created_at DATETIME)").Error)
	for _, table := range []string{"page_views", "user_interactions", "chatbot_sessions", "contacts", "email_subscriptions"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return NewService(db, nil, 365)
}

func TestDashboardEmptyWindow(t *testing.T) {
	svc := newTestService(t)

	dashboard, err := svc.GetDashboard(30)
	require.NoError(t, err)

	assert.Zero(t, dashboard.TotalViews)
	assert.Empty(t, dashboard.PageViews)
	assert.Empty(t, dashboard.Interactions)
	assert.Zero(t, dashboard.Contacts)
	assert.Zero(t, dashboard.Subscriptions)
	assert.Zero(t, dashboard.Chatbot.Sessions)
	assert.Zero(t, dashboard.Chatbot.AvgMessages)
}

func TestDashboardAggregation(t *testing.T) {
	svc := newTestService(t)

	pages := []string{"/", "/", "/", "/services", "/pricing"}
	for _, page := range pages {
		require.NoError(t, svc.TrackPageView(&PageView{Page: page, SessionID: "s1"}))
	}
	require.NoError(t, svc.TrackInteraction(&Interaction{Type: "click", Element: "cta", Page: "/"}))
	require.NoError(t, svc.TrackInteraction(&Interaction{Type: "click", Element: "nav", Page: "/"}))
	require.NoError(t, svc.TrackInteraction(&Interaction{Type: "form_submit", Element: "contact", Page: "/contact"}))

	dashboard, err := svc.GetDashboard(30)
	require.NoError(t, err)

	assert.EqualValues(t, 5, dashboard.TotalViews)
	require.NotEmpty(t, dashboard.PageViews)
	assert.Equal(t, "/", dashboard.PageViews[0].Page)
	assert.EqualValues(t, 3, dashboard.PageViews[0].Views)

	require.Len(t, dashboard.Interactions, 2)
	assert.Equal(t, "click", dashboard.Interactions[0].Type)
	assert.EqualValues(t, 2, dashboard.Interactions[0].Count)
}

func TestDashboardSubscriptionsWindowed(t *testing.T) {
	svc := newTestService(t)

	// Une inscription active hors fenêtre ne compte pas
	old := time.Now().AddDate(0, 0, -40)
	require.NoError(t, svc.db.Exec(
		"INSERT INTO email_subscriptions (is_active, created_at) VALUES (?, ?)", true, old).Error)
	require.NoError(t, svc.db.Exec(
		"INSERT INTO email_subscriptions (is_active, created_at) VALUES (?, ?)", true, time.Now()).Error)
	require.NoError(t, svc.db.Exec(
		"INSERT INTO email_subscriptions (is_active, created_at) VALUES (?, ?)", false, time.Now()).Error)

	dashboard, err := svc.GetDashboard(7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, dashboard.Subscriptions)

	dashboard, err = svc.GetDashboard(90)
	require.NoError(t, err)
	assert.EqualValues(t, 2, dashboard.Subscriptions)
}

func TestChatbotSessionUpsert(t *testing.T) {
	svc := newTestService(t)

	session, err := svc.UpsertChatbotSession("abc123", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, session.Messages)
	assert.Nil(t, session.EndTime)

	// Deuxième appel: mise à jour de la même ligne, pas de doublon
	score := 5
	session, err = svc.UpsertChatbotSession("abc123", 4, &score)
	require.NoError(t, err)
	assert.Equal(t, 4, session.Messages)
	require.NotNil(t, session.EndTime)
	require.NotNil(t, session.Satisfaction)
	assert.Equal(t, 5, *session.Satisfaction)

	var count int64
	require.NoError(t, svc.db.Model(&ChatbotSession{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestChatbotAvgMessagesRounding(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.db.Create(&ChatbotSession{SessionID: "a", Messages: 1, StartTime: time.Now()}).Error)
	require.NoError(t, svc.db.Create(&ChatbotSession{SessionID: "b", Messages: 2, StartTime: time.Now()}).Error)
	require.NoError(t, svc.db.Create(&ChatbotSession{SessionID: "c", Messages: 4, StartTime: time.Now()}).Error)

	dashboard, err := svc.GetDashboard(30)
	require.NoError(t, err)
	assert.EqualValues(t, 3, dashboard.Chatbot.Sessions)
	assert.InDelta(t, 2.33, dashboard.Chatbot.AvgMessages, 0.001)
}

func TestRoundAverage(t *testing.T) {
	assert.Zero(t, RoundAverage(10, 0))
	assert.InDelta(t, 2.33, RoundAverage(7, 3), 0.001)
	assert.InDelta(t, 2.0, RoundAverage(6, 3), 0.001)
}

func TestRecentActivity(t *testing.T) {
	svc := newTestService(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.TrackPageView(&PageView{Page: "/", SessionID: "s"}))
	}
	require.NoError(t, svc.TrackInteraction(&Interaction{Type: "click", Element: "cta"}))

	activity, err := svc.GetRecentActivity(2)
	require.NoError(t, err)
	assert.Len(t, activity.PageViews, 2)
	assert.Len(t, activity.Interactions, 1)
}

func TestTrackPageViewValidation(t *testing.T) {
	svc := newTestService(t)
	assert.Error(t, svc.TrackPageView(&PageView{}))
	assert.Error(t, svc.TrackInteraction(&Interaction{Element: "cta"}))
}

func TestTrackInteractionWithoutElement(t *testing.T) {
	svc := newTestService(t)

	// Un scroll n'a pas d'élément cible, l'événement reste valide
	require.NoError(t, svc.TrackInteraction(&Interaction{
		Type: "scroll", Page: "/services", SessionID: "s1",
	}))

	var saved Interaction
	require.NoError(t, svc.db.Where("type = ?", "scroll").First(&saved).Error)
	assert.Empty(t, saved.Element)
}
