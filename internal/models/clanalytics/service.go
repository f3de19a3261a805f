package clanalytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"neuronet/internal/clerrors"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AnalyticsService agrège les vues, interactions et sessions chatbot
type AnalyticsService struct {
	db            *gorm.DB
	redis         *redis.Client
	cron          *cron.Cron
	retentionDays int
}

type PageCount struct {
	Page  string `json:"page"`
	Views int64  `json:"views"`
}

type InteractionCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type ChatbotStats struct {
	Sessions    int64   `json:"sessions"`
	AvgMessages float64 `json:"avgMessages"`
}

// Dashboard est l'agrégat pur d'une fenêtre temporelle.
// Une fenêtre vide donne des zéros, jamais une erreur.
type Dashboard struct {
	Days          int                `json:"days"`
	TotalViews    int64              `json:"totalViews"`
	PageViews     []PageCount        `json:"pageViews"`
	Interactions  []InteractionCount `json:"interactions"`
	Contacts      int64              `json:"contacts"`
	Subscriptions int64              `json:"subscriptions"`
	Chatbot       ChatbotStats       `json:"chatbot"`
}

type RecentActivity struct {
	PageViews    []PageView    `json:"pageViews"`
	Interactions []Interaction `json:"interactions"`
}

func NewService(db *gorm.DB, redisClient *redis.Client, retentionDays int) *AnalyticsService {
	if retentionDays <= 0 {
		retentionDays = 365
	}
	return &AnalyticsService{
		db:            db,
		redis:         redisClient,
		retentionDays: retentionDays,
	}
}

// TrackPageView enregistre une vue de page.
func (s *AnalyticsService) TrackPageView(view *PageView) error {
	if view.Page == "" {
		return clerrors.Validation("la page est requise")
	}
	if err := s.db.Create(view).Error; err != nil {
		return clerrors.Persistence("impossible d'enregistrer la vue", err)
	}
	return nil
}

// TrackInteraction enregistre un événement utilisateur. L'élément est
// facultatif: un scroll n'a pas de cible.
func (s *AnalyticsService) TrackInteraction(interaction *Interaction) error {
	if interaction.Type == "" {
		return clerrors.Validation("le type est requis")
	}
	if err := s.db.Create(interaction).Error; err != nil {
		return clerrors.Persistence("impossible d'enregistrer l'interaction", err)
	}
	return nil
}

// UpsertChatbotSession crée la session au premier appel puis met à jour
// le compteur de messages, la fin et la satisfaction aux appels suivants.
func (s *AnalyticsService) UpsertChatbotSession(sessionID string, messages int, satisfaction *int) (*ChatbotSession, error) {
	if sessionID == "" {
		return nil, clerrors.Validation("sessionId est requis")
	}

	now := time.Now()
	var session ChatbotSession
	err := s.db.Where("session_id = ?", sessionID).First(&session).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		session = ChatbotSession{
			SessionID: sessionID,
			Messages:  messages,
			StartTime: now,
		}
		if satisfaction != nil {
			session.Satisfaction = satisfaction
		}
		if err := s.db.Create(&session).Error; err != nil {
			return nil, clerrors.Persistence("impossible de créer la session chatbot", err)
		}
		return &session, nil
	case err != nil:
		return nil, clerrors.Persistence("impossible de lire la session chatbot", err)
	}

	updates := map[string]any{
		"messages": messages,
		"end_time": now,
	}
	if satisfaction != nil {
		updates["satisfaction"] = *satisfaction
	}
	if err := s.db.Model(&session).Updates(updates).Error; err != nil {
		return nil, clerrors.Persistence("impossible de mettre à jour la session chatbot", err)
	}
	session.Messages = messages
	session.EndTime = &now
	if satisfaction != nil {
		session.Satisfaction = satisfaction
	}
	return &session, nil
}

// GetDashboard agrège la fenêtre [maintenant - days, maintenant].
func (s *AnalyticsService) GetDashboard(days int) (*Dashboard, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	dashboard := &Dashboard{
		Days:         days,
		PageViews:    []PageCount{},
		Interactions: []InteractionCount{},
	}

	if err := s.db.Model(&PageView{}).
		Where("created_at >= ?", since).
		Count(&dashboard.TotalViews).Error; err != nil {
		return nil, clerrors.Persistence("impossible de compter les vues", err)
	}

	if err := s.db.Model(&PageView{}).
		Select("page, COUNT(*) as views").
		Where("created_at >= ?", since).
		Group("page").
		Order("views DESC").
		Scan(&dashboard.PageViews).Error; err != nil {
		return nil, clerrors.Persistence("impossible d'agréger les vues", err)
	}

	if err := s.db.Model(&Interaction{}).
		Select("type, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("type").
		Order("count DESC").
		Scan(&dashboard.Interactions).Error; err != nil {
		return nil, clerrors.Persistence("impossible d'agréger les interactions", err)
	}

	if err := s.db.Table("contacts").
		Where("created_at >= ?", since).
		Count(&dashboard.Contacts).Error; err != nil {
		return nil, clerrors.Persistence("impossible de compter les contacts", err)
	}

	if err := s.db.Table("email_subscriptions").
		Where("is_active = ? AND created_at >= ?", true, since).
		Count(&dashboard.Subscriptions).Error; err != nil {
		return nil, clerrors.Persistence("impossible de compter les inscriptions", err)
	}

	chatbot, err := s.chatbotStats(since)
	if err != nil {
		return nil, err
	}
	dashboard.Chatbot = chatbot

	return dashboard, nil
}

func (s *AnalyticsService) chatbotStats(since time.Time) (ChatbotStats, error) {
	var stats ChatbotStats

	if err := s.db.Model(&ChatbotSession{}).
		Where("start_time >= ?", since).
		Count(&stats.Sessions).Error; err != nil {
		return stats, clerrors.Persistence("impossible de compter les sessions chatbot", err)
	}
	if stats.Sessions == 0 {
		return stats, nil
	}

	var total struct{ Total int64 }
	if err := s.db.Model(&ChatbotSession{}).
		Select("COALESCE(SUM(messages), 0) as total").
		Where("start_time >= ?", since).
		Scan(&total).Error; err != nil {
		return stats, clerrors.Persistence("impossible de sommer les messages chatbot", err)
	}

	stats.AvgMessages = RoundAverage(total.Total, stats.Sessions)
	return stats, nil
}

// RoundAverage arrondit une moyenne à deux décimales, 0 quand le
// dénominateur est nul.
func RoundAverage(sum, count int64) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*100) / 100
}

// GetRecentActivity retourne les dernières vues et interactions.
func (s *AnalyticsService) GetRecentActivity(limit int) (*RecentActivity, error) {
	if limit <= 0 {
		limit = 50
	}

	activity := &RecentActivity{
		PageViews:    []PageView{},
		Interactions: []Interaction{},
	}

	if err := s.db.Order("created_at DESC").Limit(limit).
		Find(&activity.PageViews).Error; err != nil {
		return nil, clerrors.Persistence("impossible de lister les vues récentes", err)
	}
	if err := s.db.Order("created_at DESC").Limit(limit).
		Find(&activity.Interactions).Error; err != nil {
		return nil, clerrors.Persistence("impossible de lister les interactions récentes", err)
	}
	return activity, nil
}

// RecordRealtime incrémente les compteurs Redis du jour.
// Les clés expirent après 31 jours.
func (s *AnalyticsService) RecordRealtime(ctx context.Context, page, visitorID string) {
	if s.redis == nil {
		return
	}
	day := time.Now().Format("2006-01-02")

	pipe := s.redis.Pipeline()
	viewsKey := fmt.Sprintf("analytics:views:%s", day)
	visitorsKey := fmt.Sprintf("analytics:visitors:%s", day)
	pipe.HIncrBy(ctx, viewsKey, page, 1)
	pipe.Expire(ctx, viewsKey, 31*24*time.Hour)
	pipe.SAdd(ctx, visitorsKey, visitorID)
	pipe.Expire(ctx, visitorsKey, 31*24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Debug().Err(err).Msg("Compteurs temps réel indisponibles")
	}
}

// GetRealtimeStats lit les compteurs Redis du jour courant.
func (s *AnalyticsService) GetRealtimeStats(ctx context.Context) (map[string]any, error) {
	if s.redis == nil {
		return map[string]any{"views": map[string]string{}, "visitors": int64(0)}, nil
	}
	day := time.Now().Format("2006-01-02")

	views, err := s.redis.HGetAll(ctx, fmt.Sprintf("analytics:views:%s", day)).Result()
	if err != nil {
		return nil, clerrors.Persistence("impossible de lire les vues temps réel", err)
	}
	visitors, err := s.redis.SCard(ctx, fmt.Sprintf("analytics:visitors:%s", day)).Result()
	if err != nil {
		return nil, clerrors.Persistence("impossible de lire les visiteurs temps réel", err)
	}

	return map[string]any{
		"views":    views,
		"visitors": visitors,
	}, nil
}

// SetupCleanupCron purge chaque nuit les vues au-delà de la rétention.
func (s *AnalyticsService) SetupCleanupCron() {
	s.cron = cron.New()
	s.cron.AddFunc("0 2 * * *", func() {
		if err := s.cleanupOldPageViews(); err != nil {
			log.Error().Err(err).Msg("Erreur nettoyage analytics")
		}
	})
	s.cron.Start()
}

func (s *AnalyticsService) StopCron() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *AnalyticsService) cleanupOldPageViews() error {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)

	result := s.db.Where("created_at < ?", cutoff).Delete(&PageView{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Info().
			Int64("deleted", result.RowsAffected).
			Time("cutoff", cutoff).
			Msg("Vues de pages anciennes purgées")
	}
	return nil
}
