package admin

import (
	"net/http"
	"strconv"

	"neuronet/internal/clerrors"
	"neuronet/internal/models/clanalytics"
	"neuronet/internal/models/clsite"

	"github.com/andskur/argon2-hashing"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler expose la zone d'administration du site
type Handler struct {
	Site *clsite.Neuronet
}

func New(site *clsite.Neuronet) *Handler {
	return &Handler{Site: site}
}

// AuthRequired protège les routes admin via la session cookie.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get("user_id") == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentification requise"})
			c.Abort()
			return
		}
		c.Set("authenticated", true)
		c.Next()
	}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login vérifie les identifiants contre le hash argon2 de la configuration.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps JSON invalide"})
		return
	}

	user := h.Site.Configuration.User
	if req.Login != user.Login ||
		argon2.CompareHashAndPassword([]byte(user.Hash), []byte(req.Password)) != nil {
		log.Warn().Str("login", req.Login).Str("ip", c.ClientIP()).Msg("Connexion admin refusée")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identifiants invalides"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.Login)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session non sauvegardée"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout détruit la session admin.
func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Debug().Err(err).Msg("Session non détruite")
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Analytics sert le tableau de bord, les constats et l'activité récente.
func (h *Handler) Analytics(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}

	dashboard, err := h.Site.Analytics.GetDashboard(days)
	if err != nil {
		c.JSON(clerrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	recent, err := h.Site.Analytics.GetRecentActivity(50)
	if err != nil {
		c.JSON(clerrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dashboard":      dashboard,
		"insights":       clanalytics.ComputeInsights(dashboard),
		"recentActivity": recent,
	})
}

// Realtime sert les compteurs Redis du jour.
func (h *Handler) Realtime(c *gin.Context) {
	stats, err := h.Site.Analytics.GetRealtimeStats(c.Request.Context())
	if err != nil {
		c.JSON(clerrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Contacts liste les demandes reçues.
func (h *Handler) Contacts(c *gin.Context) {
	contacts, err := h.Site.Contacts.List()
	if err != nil {
		c.JSON(clerrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

// Subscribers liste les inscriptions newsletter.
func (h *Handler) Subscribers(c *gin.Context) {
	subs, err := h.Site.Subscribers.All()
	if err != nil {
		c.JSON(clerrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": subs})
}

// RunNewsletter déclenche la campagne à la demande.
// Le vol unique du runner refuse un déclenchement concurrent.
func (h *Handler) RunNewsletter(c *gin.Context) {
	report, err := h.Site.Newsletter.Run(c.Request.Context())
	if err != nil {
		c.JSON(clerrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}
