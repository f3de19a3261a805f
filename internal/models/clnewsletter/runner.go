package clnewsletter

import (
	"context"
	"sync"
	"time"

	"neuronet/internal/clerrors"
	"neuronet/internal/models/clconfig"
	"neuronet/internal/models/clmail"
	"neuronet/internal/models/clsubscribers"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Report résume une exécution de campagne
type Report struct {
	Sent   int    `json:"sent"`
	Failed int    `json:"failed"`
	Tip    string `json:"tip"`
}

// Runner exécute la campagne quotidienne en vol unique:
// un déclenchement concurrent est refusé, jamais empilé.
type Runner struct {
	subs   *clsubscribers.Service
	sender clmail.Sender
	site   clconfig.SiteConfig
	delay  time.Duration

	mu      sync.Mutex
	running bool
}

func NewRunner(subs *clsubscribers.Service, sender clmail.Sender, site clconfig.SiteConfig, cfg clconfig.NewsletterConfig) *Runner {
	delay := time.Duration(cfg.DelayMs) * time.Millisecond
	if delay == 0 {
		delay = time.Second
	}
	return &Runner{
		subs:   subs,
		sender: sender,
		site:   site,
		delay:  delay,
	}
}

// Schedule enregistre le déclenchement quotidien sur le cron partagé.
func (r *Runner) Schedule(c *cron.Cron, spec string) error {
	_, err := c.AddFunc(spec, func() {
		report, err := r.Run(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("Campagne newsletter en échec")
			return
		}
		log.Info().
			Int("sent", report.Sent).
			Int("failed", report.Failed).
			Str("tip", report.Tip).
			Msg("Campagne newsletter terminée")
	})
	return err
}

// Run envoie le conseil du jour à tous les inscrits actifs.
// Un échec d'envoi individuel est compté et journalisé, le lot continue.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, clerrors.Conflict("une campagne est déjà en cours")
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	if r.sender == nil {
		log.Warn().Msg("Mailer absent, campagne ignorée")
		return &Report{}, nil
	}

	subscribers, err := r.subs.Active()
	if err != nil {
		return nil, err
	}

	tip := PickTip()
	content := Render(tip, r.site.Name, r.site.BaseURL, r.site.Phone, r.site.Email)
	report := &Report{Tip: tip.Title}

	for i, sub := range subscribers {
		select {
		case <-ctx.Done():
			log.Warn().
				Int("sent", report.Sent).
				Int("remaining", len(subscribers)-i).
				Msg("Campagne interrompue")
			return report, ctx.Err()
		default:
		}

		html := Personalize(content.HTML, sub.Email)
		text := Personalize(content.Text, sub.Email)

		if err := r.sender.SendNewsletter(sub.Email, content.Subject, html, text); err != nil {
			report.Failed++
			log.Error().Err(err).Str("email", sub.Email).Msg("Envoi newsletter échoué")
		} else {
			report.Sent++
			if err := r.subs.MarkSent(sub.Email, time.Now()); err != nil {
				log.Error().Err(err).Str("email", sub.Email).Msg("Impossible de dater l'envoi")
			}
		}

		// Pause entre deux envois pour ménager le serveur SMTP
		if i < len(subscribers)-1 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(r.delay):
			}
		}
	}

	return report, nil
}
