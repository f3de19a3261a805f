package clmail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"neuronet/internal/clerrors"
	"neuronet/internal/models/clconfig"
	"neuronet/internal/models/clcontacts"

	"github.com/rs/zerolog/log"
)

// Sender est l'interface consommée par la newsletter, ce qui permet
// de substituer un envoi factice dans les tests.
type Sender interface {
	SendNewsletter(to, subject, html, text string) error
}

// Mailer envoie les notifications et la newsletter via SMTP
type Mailer struct {
	host     string
	port     int
	from     string
	password string
	to       string
	siteName string

	// SMTPS (TLS dès le premier octet) pour le port 465,
	// STARTTLS via smtp.SendMail sinon
	implicitTLS bool

	// point d'injection pour les tests
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New construit le mailer, ou retourne nil si les identifiants manquent.
// Un mailer nil signifie "journaliser au lieu d'envoyer" pour les appelants.
func New(cfg clconfig.MailConfig, siteName string) *Mailer {
	if cfg.From == "" || cfg.Password == "" {
		log.Warn().Msg("Mailer non configuré, les emails seront journalisés sans envoi")
		return nil
	}

	host, port := cfg.Host, cfg.Port
	if host == "" {
		host, port = DetectProvider(cfg.From)
	}
	if port == 0 {
		port = 587
	}

	to := cfg.To
	if to == "" {
		to = cfg.From
	}

	m := &Mailer{
		host:        host,
		port:        port,
		from:        cfg.From,
		password:    cfg.Password,
		to:          to,
		siteName:    siteName,
		implicitTLS: port == 465,
	}
	if m.implicitTLS {
		m.sendMail = sendMailTLS(host)
	} else {
		m.sendMail = smtp.SendMail
	}
	return m
}

// DetectProvider déduit le serveur SMTP du domaine de l'expéditeur.
func DetectProvider(email string) (host string, port int) {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "smtp.gmail.com", 587
	}
	domain := strings.ToLower(parts[1])

	switch {
	case strings.Contains(domain, "outlook") || strings.Contains(domain, "hotmail") || strings.Contains(domain, "live"):
		return "smtp-mail.outlook.com", 587
	case strings.Contains(domain, "yahoo"):
		return "smtp.mail.yahoo.com", 587
	case strings.Contains(domain, "gmail"):
		return "smtp.gmail.com", 465
	default:
		return "smtp.gmail.com", 587
	}
}

// SendContactNotification prévient l'équipe d'une nouvelle demande.
// Le Reply-To pointe vers le visiteur pour répondre en un clic.
func (m *Mailer) SendContactNotification(contact *clcontacts.Contact) error {
	subject := fmt.Sprintf("New Contact: %s %s - %s", contact.FirstName, contact.LastName, contact.ServiceInterest)

	company := contact.Company
	if company == "" {
		company = "Not provided"
	}

	text := fmt.Sprintf(`New Contact Form Submission - %s

From: %s %s (%s)
Company: %s
Service Interest: %s

Message:
%s

Submitted: %s

---
Reply directly to this email to respond to %s.
This message was automatically forwarded from your website contact form.`,
		m.siteName,
		contact.FirstName, contact.LastName, contact.Email,
		company,
		contact.ServiceInterest,
		contact.Message,
		contact.CreatedAt.Format(time.RFC1123),
		contact.FirstName,
	)
	html := strings.ReplaceAll(text, "\n", "<br>")

	headers := map[string]string{"Reply-To": contact.Email}
	msg := buildMIMEMessage(m.from, m.to, subject, text, html, headers)

	if err := m.send(m.to, msg); err != nil {
		return clerrors.Upstream("notification de contact non envoyée", err)
	}
	log.Info().Str("contact", contact.Email).Msg("Notification de contact envoyée")
	return nil
}

// SendNewsletter envoie la campagne quotidienne à une adresse.
func (m *Mailer) SendNewsletter(to, subject, html, text string) error {
	from := fmt.Sprintf("%s <%s>", m.siteName, m.from)
	msg := buildMIMEMessage(from, to, subject, text, html, nil)

	if err := m.send(to, msg); err != nil {
		return clerrors.Upstream("newsletter non envoyée", err)
	}
	return nil
}

func (m *Mailer) send(to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	return m.sendMail(addr, auth, m.from, []string{to}, msg)
}

// sendMailTLS parle SMTPS: le port 465 attend une poignée de main TLS
// immédiate, que smtp.SendMail (STARTTLS) ne fait jamais.
func sendMailTLS(host string) func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	return func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
		if err != nil {
			return err
		}

		client, err := smtp.NewClient(conn, host)
		if err != nil {
			conn.Close()
			return err
		}
		defer client.Close()

		if err := client.Auth(a); err != nil {
			return err
		}
		if err := client.Mail(from); err != nil {
			return err
		}
		for _, rcpt := range to {
			if err := client.Rcpt(rcpt); err != nil {
				return err
			}
		}

		w, err := client.Data()
		if err != nil {
			return err
		}
		if _, err := w.Write(msg); err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		return client.Quit()
	}
}

const mimeBoundary = "neuronet-mime-boundary"

// buildMIMEMessage assemble un message multipart/alternative
// avec une partie texte et une partie HTML.
func buildMIMEMessage(from, to, subject, text, html string, extraHeaders map[string]string) []byte {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	for key, value := range extraHeaders {
		b.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", mimeBoundary))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(text)
	b.WriteString("\r\n\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n\r\n")

	b.WriteString(fmt.Sprintf("--%s--\r\n", mimeBoundary))

	return []byte(b.String())
}
