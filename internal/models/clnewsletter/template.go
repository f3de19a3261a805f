package clnewsletter

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	htmlmin "github.com/tdewolff/minify/v2/html"

	"github.com/tdewolff/minify/v2"
	stripmd "github.com/writeas/go-strip-markdown"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// emailPlaceholder est substitué par l'adresse du destinataire
// dans le lien de désinscription, juste avant l'envoi.
const emailPlaceholder = "{{email}}"

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		ghtml.WithHardWraps(),
	),
)

var minifier = func() *minify.M {
	m := minify.New()
	m.AddFunc("text/html", htmlmin.Minify)
	return m
}()

// Content est la campagne rendue, prête à personnaliser par destinataire
type Content struct {
	Subject string
	HTML    string
	Text    string
}

type templateData struct {
	SiteName   string
	BaseURL    string
	Phone      string
	Email      string
	Date       string
	TipTitle   string
	TipHTML    template.HTML
	Year       int
	UnsubURL   template.URL
}

// Render produit la campagne du jour pour un conseil donné.
// Le HTML est minifié, le texte est la version Markdown aplatie.
func Render(tip Tip, siteName, baseURL, phone, email string) Content {
	now := time.Now()

	var tipBuf bytes.Buffer
	if err := markdown.Convert([]byte(tip.Content), &tipBuf); err != nil {
		log.Error().Err(err).Msg("Erreur conversion Markdown du conseil")
		tipBuf.Reset()
		tipBuf.WriteString(template.HTMLEscapeString(tip.Content))
	}

	data := templateData{
		SiteName: siteName,
		BaseURL:  baseURL,
		Phone:    phone,
		Email:    email,
		Date:     now.Format("Monday, January 2, 2006"),
		TipTitle: tip.Title,
		TipHTML:  template.HTML(tipBuf.String()),
		Year:     now.Year(),
		// template.URL évite l'échappement du marqueur {{email}} dans le lien
		UnsubURL: template.URL(baseURL + "/unsubscribe?email=" + emailPlaceholder),
	}

	var htmlBuf bytes.Buffer
	if err := emailTemplate.Execute(&htmlBuf, data); err != nil {
		log.Error().Err(err).Msg("Erreur rendu template newsletter")
	}

	html := htmlBuf.String()
	if minified, err := minifier.String("text/html", html); err == nil {
		html = minified
	}

	return Content{
		Subject: Subject(tip, siteName),
		HTML:    html,
		Text:    renderText(tip, data),
	}
}

func renderText(tip Tip, data templateData) string {
	return fmt.Sprintf(`%s - Daily Business Tip (%s)

Today's AI Business Tip: %s

%s

How %s Can Transform Your Business:
• Free AI Assessment - Identify automation opportunities
• Custom Solutions - Tailored AI implementations
• Proven Results - Average 40%% efficiency improvement within 3 months
• Ongoing Support - Dedicated success team

Ready to automate your business?
Contact us: %s
Email: %s
Website: %s/contact

Unsubscribe: %s/unsubscribe?email=%s
`,
		data.SiteName, data.Date,
		tip.Title,
		stripmd.Strip(tip.Content),
		data.SiteName,
		data.Phone,
		data.Email,
		data.BaseURL,
		data.BaseURL, emailPlaceholder,
	)
}

// Personalize remplace le marqueur de désinscription par l'adresse
// du destinataire, encodée pour l'URL.
func Personalize(content string, email string) string {
	return strings.ReplaceAll(content, emailPlaceholder, url.QueryEscape(email))
}

var emailTemplate = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: Arial, sans-serif; margin: 0; padding: 0; background-color: #0a0a0a; color: #ffffff; }
.container { max-width: 600px; margin: 0 auto; background-color: #000000; }
.header { background: linear-gradient(135deg, #00d4ff, #0099cc); padding: 30px; text-align: center; }
.header h1 { margin: 0; font-size: 28px; color: #000; font-weight: bold; }
.content { padding: 30px; }
.tip-section { background-color: #1a1a1a; padding: 25px; border-radius: 10px; margin: 20px 0; border-left: 4px solid #00d4ff; }
.tip-title { font-size: 22px; font-weight: bold; color: #00d4ff; margin-bottom: 15px; }
.tip-content { font-size: 16px; line-height: 1.6; color: #e5e5e5; }
.cta-section { text-align: center; padding: 30px 0; }
.cta-button { display: inline-block; background: #00d4ff; color: #000; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; font-size: 16px; }
.benefits { background-color: #1a1a1a; padding: 20px; border-radius: 10px; margin: 20px 0; }
.benefit-item { margin: 10px 0; }
.footer { background-color: #0a0a0a; padding: 20px; text-align: center; font-size: 12px; color: #888; }
.unsubscribe { color: #00d4ff; text-decoration: none; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>🧠 {{.SiteName}}</h1>
    <p style="margin: 10px 0 0 0; color: #000; font-size: 16px;">Daily AI Business Transformation Tips</p>
  </div>
  <div class="content">
    <p style="font-size: 16px; color: #ccc;">Good morning! Here's your daily insight on {{.Date}}</p>
    <div class="tip-section">
      <div class="tip-title">💡 Today's AI Business Tip: {{.TipTitle}}</div>
      <div class="tip-content">{{.TipHTML}}</div>
    </div>
    <div class="benefits">
      <h3 style="color: #00d4ff; margin-top: 0;">🚀 How {{.SiteName}} Can Transform Your Business:</h3>
      <div class="benefit-item">✅ <strong>Free AI Assessment</strong> - Identify automation opportunities in your business</div>
      <div class="benefit-item">✅ <strong>Custom Solutions</strong> - Tailored AI implementations for your specific needs</div>
      <div class="benefit-item">✅ <strong>Proven Results</strong> - Average 40% efficiency improvement within 3 months</div>
      <div class="benefit-item">✅ <strong>Ongoing Support</strong> - Dedicated team to ensure your success</div>
    </div>
    <div class="cta-section">
      <p style="font-size: 18px; margin-bottom: 20px;">Ready to automate your business processes?</p>
      <a href="{{.BaseURL}}/contact" class="cta-button">Schedule Free Consultation</a>
    </div>
    <div style="background-color: #1a1a1a; padding: 20px; border-radius: 10px; margin: 20px 0;">
      <h4 style="color: #00d4ff; margin-top: 0;">📞 Get Started Today:</h4>
      <p>Phone: {{.Phone}}<br>
      Email: {{.Email}}<br>
      Website: <a href="{{.BaseURL}}" style="color: #00d4ff;">Visit Our Website</a></p>
    </div>
  </div>
  <div class="footer">
    <p>© {{.Year}} {{.SiteName}}. All rights reserved.</p>
    <p>You received this email because you subscribed to our daily AI business tips.</p>
    <p><a href="{{.UnsubURL}}" class="unsubscribe">Unsubscribe</a></p>
  </div>
</div>
</body>
</html>`))
