package api

import (
	"net/http"
	"strings"

	"neuronet/internal/clerrors"
	"neuronet/internal/models/clai"
	"neuronet/internal/models/clanalytics"
	"neuronet/internal/models/clchatbot"
	"neuronet/internal/models/clcontacts"
	"neuronet/internal/models/clsite"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler expose l'API publique du site
type Handler struct {
	Site *clsite.Neuronet
}

func New(site *clsite.Neuronet) *Handler {
	return &Handler{Site: site}
}

// abortWithError traduit la taxonomie d'erreurs en réponse HTTP.
func abortWithError(c *gin.Context, err error) {
	c.JSON(clerrors.HTTPStatus(err), gin.H{"error": err.Error()})
}

type contactRequest struct {
	clcontacts.CreateInput
	CaptchaID     string `json:"captchaId"`
	CaptchaAnswer string `json:"captchaAnswer"`
}

// Contact traite le formulaire de contact.
func (h *Handler) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps JSON invalide"})
		return
	}

	if h.Site.Captcha != nil {
		if err := h.Site.Captcha.VerifyCaptcha(req.CaptchaID, req.CaptchaAnswer); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	contact, err := h.Site.Contacts.Create(req.CreateInput)
	if err != nil {
		abortWithError(c, err)
		return
	}

	// La notification part en arrière-plan, son échec n'affecte pas le visiteur
	if h.Site.Mailer != nil {
		go func() {
			if err := h.Site.Mailer.SendContactNotification(contact); err != nil {
				log.Error().Err(err).Str("contact", contact.Email).Msg("Notification de contact non envoyée")
			}
		}()
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "contact": contact})
}

// Captcha génère un nouveau défi pour le formulaire de contact.
func (h *Handler) Captcha(c *gin.Context) {
	if h.Site.Captcha == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "captcha désactivé"})
		return
	}
	h.Site.Captcha.CaptchaHandler(c, h.Site.Configuration.Production)
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe inscrit une adresse à la newsletter.
func (h *Handler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps JSON invalide"})
		return
	}

	sub, err := h.Site.Subscribers.Subscribe(req.Email)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "subscription": sub})
}

// Unsubscribe désactive une inscription, de façon idempotente.
func (h *Handler) Unsubscribe(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		var req subscribeRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			email = req.Email
		}
	}

	if err := h.Site.Subscribers.Unsubscribe(email); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type pageViewRequest struct {
	Page      string `json:"page"`
	UserAgent string `json:"userAgent"`
	SessionID string `json:"sessionId"`
}

// PageView enregistre une vue envoyée par le front.
func (h *Handler) PageView(c *gin.Context) {
	var req pageViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps JSON invalide"})
		return
	}

	view := &clanalytics.PageView{
		Page:      req.Page,
		UserAgent: req.UserAgent,
		IPAddress: c.ClientIP(),
		SessionID: req.SessionID,
	}
	if err := h.Site.Analytics.TrackPageView(view); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

type interactionRequest struct {
	Type      string `json:"type"`
	Element   string `json:"element"`
	Page      string `json:"page"`
	Data      string `json:"data"`
	SessionID string `json:"sessionId"`
}

// Interaction enregistre un événement utilisateur.
func (h *Handler) Interaction(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps JSON invalide"})
		return
	}

	interaction := &clanalytics.Interaction{
		Type:      req.Type,
		Element:   req.Element,
		Page:      req.Page,
		Data:      req.Data,
		SessionID: req.SessionID,
	}
	if err := h.Site.Analytics.TrackInteraction(interaction); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

type chatbotRequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
	Page     string `json:"page"`
}

// Chatbot répond à un message du visiteur.
// Le sélecteur de règles répond localement, les questions complexes
// partent vers l'IA, et tout échec IA retombe sur la réponse de secours.
func (h *Handler) Chatbot(c *gin.Context) {
	var req chatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps JSON invalide"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "la question est requise"})
		return
	}

	page := req.Page
	if page == "" {
		page = pageFromContext(req.Context)
	}

	// Escalade avant toute règle locale; IA absente ou en panne,
	// même réponse de secours
	if clchatbot.ShouldEscalate(req.Question) {
		answer, err := h.Site.AI.Ask(c.Request.Context(), req.Question, aiContext(req.Context, page))
		if err != nil {
			log.Warn().Err(err).Msg("Escalade IA échouée, réponse de secours servie")
			c.JSON(http.StatusOK, gin.H{
				"text":        clai.FallbackReply,
				"suggestions": clchatbot.ContextualSuggestions(page),
				"ai":          false,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"text":        clai.Sanitize(answer),
			"suggestions": clchatbot.ContextualSuggestions(page),
			"ai":          true,
		})
		return
	}

	// Le prénom du visiteur vit dans la session cookie
	session := sessions.Default(c)
	conv := &clchatbot.Conversation{}
	if name, ok := session.Get("chat_name").(string); ok {
		conv.UserName = name
	}

	reply := clchatbot.Respond(req.Question, page, conv)

	if conv.UserName != "" {
		session.Set("chat_name", conv.UserName)
		if err := session.Save(); err != nil {
			log.Debug().Err(err).Msg("Session chatbot non sauvegardée")
		}
	}

	response := gin.H{
		"text":        reply.Text,
		"suggestions": reply.Suggestions,
		"ai":          false,
	}
	if reply.Navigate != "" {
		response["navigate"] = reply.Navigate
	}
	c.JSON(http.StatusOK, response)
}

type chatbotSessionRequest struct {
	SessionID    string `json:"sessionId"`
	Messages     int    `json:"messages"`
	Satisfaction *int   `json:"satisfaction"`
}

// ChatbotSession crée ou met à jour la session de conversation.
func (h *Handler) ChatbotSession(c *gin.Context) {
	var req chatbotSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps JSON invalide"})
		return
	}

	session, err := h.Site.Analytics.UpsertChatbotSession(req.SessionID, req.Messages, req.Satisfaction)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

// pageFromContext extrait le chemin d'un contexte "PageName - /path".
func pageFromContext(context string) string {
	if idx := strings.LastIndex(context, " - "); idx >= 0 {
		return strings.TrimSpace(context[idx+3:])
	}
	return ""
}

func aiContext(context, page string) string {
	if context != "" {
		return context
	}
	if name := clchatbot.PageName(page); name != "" {
		return name + " - " + page
	}
	return page
}
