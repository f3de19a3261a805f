package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"neuronet/internal/clmiddleware"
	"neuronet/internal/models/clai"
	"neuronet/internal/models/clanalytics"
	"neuronet/internal/models/clconfig"
	"neuronet/internal/models/clcontacts"
	"neuronet/internal/models/clsite"
	"neuronet/internal/models/clsubscribers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestSite(t *testing.T, aiCfg clconfig.AIConfig) *clsite.Neuronet {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&mode=memory"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clcontacts.Contact{},
		&clsubscribers.EmailSubscription{},
		&clanalytics.PageView{},
		&clanalytics.Interaction{},
		&clanalytics.ChatbotSession{},
	))
	for _, table := range []string{"contacts", "email_subscriptions", "page_views", "user_interactions", "chatbot_sessions"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}

	return &clsite.Neuronet{
		Db:            db,
		Configuration: &clconfig.Config{},
		Contacts:      clcontacts.NewService(db),
		Subscribers:   clsubscribers.NewService(db),
		Analytics:     clanalytics.NewService(db, nil, 365),
		AI:            clai.NewClient(aiCfg),
	}
}

func newTestRouter(site *clsite.Neuronet) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(clmiddleware.NewSession(false))

	h := New(site)
	r.POST("/api/contact", h.Contact)
	r.POST("/api/newsletter/subscribe", h.Subscribe)
	r.POST("/api/newsletter/unsubscribe", h.Unsubscribe)
	r.POST("/api/analytics/page-view", h.PageView)
	r.POST("/api/analytics/interaction", h.Interaction)
	r.POST("/api/chatbot", h.Chatbot)
	r.POST("/api/chatbot/session", h.ChatbotSession)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestContactEndpoint(t *testing.T) {
	r := newTestRouter(newTestSite(t, clconfig.AIConfig{}))

	w := postJSON(t, r, "/api/contact", map[string]string{
		"firstName":       "Tendai",
		"lastName":        "Moyo",
		"email":           "tendai@example.com",
		"serviceInterest": "Business Process Automation",
		"message":         "I need automation.",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestContactValidation400(t *testing.T) {
	r := newTestRouter(newTestSite(t, clconfig.AIConfig{}))

	w := postJSON(t, r, "/api/contact", map[string]string{
		"firstName": "Tendai",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "requis")
}

func TestSubscribeConflict409(t *testing.T) {
	r := newTestRouter(newTestSite(t, clconfig.AIConfig{}))

	w := postJSON(t, r, "/api/newsletter/subscribe", map[string]string{"email": "a@example.com"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/newsletter/subscribe", map[string]string{"email": "a@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUnsubscribeIdempotent(t *testing.T) {
	r := newTestRouter(newTestSite(t, clconfig.AIConfig{}))

	w := postJSON(t, r, "/api/newsletter/unsubscribe", map[string]string{"email": "inconnu@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	site := newTestSite(t, clconfig.AIConfig{})
	r := newTestRouter(site)

	w := postJSON(t, r, "/api/analytics/page-view", map[string]string{
		"page": "/services", "sessionId": "s1",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/analytics/interaction", map[string]string{
		"type": "click", "element": "cta", "page": "/services", "sessionId": "s1",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	dashboard, err := site.Analytics.GetDashboard(30)
	require.NoError(t, err)
	assert.EqualValues(t, 1, dashboard.TotalViews)
}

func TestChatbotLocalRule(t *testing.T) {
	r := newTestRouter(newTestSite(t, clconfig.AIConfig{}))

	w := postJSON(t, r, "/api/chatbot", map[string]string{
		"question": "what are your prices",
		"context":  "Home - /",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Contains(t, body["text"], "$299")
	assert.Equal(t, false, body["ai"])
}

func TestChatbotEscalationFallback(t *testing.T) {
	// IA configurée mais injoignable: le visiteur reçoit la réponse de secours
	site := newTestSite(t, clconfig.AIConfig{
		Endpoint:   "http://127.0.0.1:1",
		APIKey:     "key",
		Model:      "deepseek-chat",
		TimeoutSec: 1,
	})
	r := newTestRouter(site)

	w := postJSON(t, r, "/api/chatbot", map[string]string{
		"question": "explain how machine learning could improve my logistics",
		"context":  "Services - /services",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, clai.FallbackReply, body["text"])
	assert.Equal(t, false, body["ai"])
}

func TestChatbotEscalationWithoutAPIKey(t *testing.T) {
	// IA non configurée: une question complexe ne retombe pas sur les
	// règles locales, elle reçoit la réponse de secours
	r := newTestRouter(newTestSite(t, clconfig.AIConfig{}))

	w := postJSON(t, r, "/api/chatbot", map[string]string{
		"question": "explain the difference between machine learning and automation",
		"context":  "Services - /services",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, clai.FallbackReply, body["text"])
	assert.Equal(t, false, body["ai"])
}

func TestChatbotEscalationSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "ML can **optimize** your routes."}},
			},
		})
	}))
	defer upstream.Close()

	site := newTestSite(t, clconfig.AIConfig{
		Endpoint:   upstream.URL,
		APIKey:     "key",
		Model:      "deepseek-chat",
		TimeoutSec: 5,
	})
	r := newTestRouter(site)

	w := postJSON(t, r, "/api/chatbot", map[string]string{
		"question": "explain how machine learning could improve my logistics",
		"context":  "Services - /services",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	// Le markdown de l'IA est nettoyé avant affichage
	assert.Equal(t, "ML can optimize your routes.", body["text"])
	assert.Equal(t, true, body["ai"])
}

func TestChatbotEmptyQuestion(t *testing.T) {
	r := newTestRouter(newTestSite(t, clconfig.AIConfig{}))

	w := postJSON(t, r, "/api/chatbot", map[string]string{"question": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatbotSessionUpsertEndpoint(t *testing.T) {
	r := newTestRouter(newTestSite(t, clconfig.AIConfig{}))

	w := postJSON(t, r, "/api/chatbot/session", map[string]any{
		"sessionId": "sess1", "messages": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/api/chatbot/session", map[string]any{
		"sessionId": "sess1", "messages": 5, "satisfaction": 4,
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	session := body["session"].(map[string]any)
	assert.EqualValues(t, 5, session["messages"])
}

func TestPageFromContext(t *testing.T) {
	assert.Equal(t, "/services", pageFromContext("Services - /services"))
	assert.Equal(t, "/", pageFromContext("homepage - /"))
	assert.Empty(t, pageFromContext("no separator"))
}
