package clai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"neuronet/internal/clerrors"
	"neuronet/internal/models/clconfig"

	"github.com/rs/zerolog/log"
)

// FallbackReply est la réponse servie quand l'IA est indisponible.
// L'échec d'escalade ne doit jamais remonter en erreur au visiteur.
const FallbackReply = "I'm having trouble with my advanced AI features right now, but I can still help you " +
	"with questions about our AI consulting services, pricing, or how to get started. " +
	"You can also contact us directly at +263 78 549 4594."

// Client interroge une API chat-completions compatible OpenAI
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	httpClient  *http.Client
}

func NewClient(cfg clconfig.AIConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		endpoint:    cfg.Endpoint,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     timeout,
		httpClient:  &http.Client{},
	}
}

// Enabled indique si une clé API est configurée.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Ask envoie la question du visiteur à l'IA avec le contexte de page.
// Toute défaillance transport, statut ou format devient une erreur upstream.
func (c *Client) Ask(ctx context.Context, question, pageContext string) (string, error) {
	if !c.Enabled() {
		return "", clerrors.Upstream("assistant IA non configuré", nil)
	}

	userContent := question
	if pageContext != "" {
		userContent = fmt.Sprintf("Current page context: %s\n\nQuestion: %s", pageContext, question)
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Stream:      false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", clerrors.Upstream("impossible de sérialiser la requête IA", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", clerrors.Upstream("impossible de construire la requête IA", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", clerrors.Upstream("appel IA échoué", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Warn().
			Int("status", resp.StatusCode).
			Str("body", string(raw)).
			Msg("Réponse IA non-200")
		return "", clerrors.Upstream(fmt.Sprintf("l'API IA a répondu %d", resp.StatusCode), nil)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", clerrors.Upstream("réponse IA illisible", err)
	}
	if len(parsed.Choices) == 0 {
		return "", clerrors.Upstream("réponse IA vide", nil)
	}

	log.Debug().
		Dur("latency", time.Since(start)).
		Msg("Réponse IA reçue")

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// systemPrompt porte le persona Neury et les faits entreprise.
const systemPrompt = `You are Neury, the helpful AI assistant for NeuroNet AI Solutions, an AI consulting company.

Company facts:
- Services: AI Strategy Consulting, Business Process Automation, Data Analytics & Insights, Chatbot Development, Computer Vision Solutions
- Pricing: AI Strategy Session $299, Implementation Plan $999, Enterprise Consulting $2,999
- Contact: phone +263 78 549 4594, email ngonidzashezimbwa95@gmail.com
- Proven results: 45% increase in conversion rates for e-commerce, 70% reduction in customer response time, 95% accuracy in automated quality control

Guidelines:
- Be friendly, concise and professional
- Answer questions about AI, automation and how they apply to the visitor's business
- Recommend the relevant NeuroNet service when appropriate
- Encourage visitors to book a consultation or use the contact form
- Do not use markdown formatting in your answers
- Keep answers short, a few sentences at most`
