package clcaptchas

import (
	"fmt"
	"net/http"
	"strings"

	"neuronet/internal/models/clredis"

	"github.com/gin-gonic/gin"
	"github.com/mojocn/base64Captcha"
	"github.com/redis/go-redis/v9"
)

// Captchas protège le formulaire de contact contre les soumissions
// automatisées. Les réponses vivent dans Redis quand il est configuré,
// en mémoire sinon.
type Captchas struct {
	captcha *base64Captcha.Captcha
	store   base64Captcha.Store
}

func New(host string, db int) *Captchas {
	store := base64Captcha.Store(base64Captcha.DefaultMemStore)
	if host != "" {
		store = clredis.New(redis.NewClient(&redis.Options{
			Addr: host,
			DB:   db,
		}))
	}

	// Chiffres simples, le formulaire de contact vise des prospects pressés
	driver := base64Captcha.NewDriverDigit(80, 240, 5, 0.7, 80)

	return &Captchas{
		captcha: base64Captcha.NewCaptcha(driver, store),
		store:   store,
	}
}

// GenerateCaptcha produit un défi encodé en base64. Hors production la
// réponse est incluse pour faciliter les tests front.
func (cap *Captchas) GenerateCaptcha(production bool) (map[string]any, error) {
	id, b64s, answer, err := cap.captcha.Generate()
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la génération du CAPTCHA")
	}

	data := gin.H{
		"captcha_id": id,
		"image":      b64s,
		"answer":     "",
	}
	if !production {
		data["answer"] = answer
	}
	return data, nil
}

// VerifyCaptcha consomme le défi: une réponse vérifiée ne resservira pas.
func (cap *Captchas) VerifyCaptcha(captchaID string, captchaAnswer string) error {
	captchaID = strings.TrimSpace(captchaID)
	captchaAnswer = strings.TrimSpace(captchaAnswer)

	if captchaID == "" || captchaAnswer == "" {
		return fmt.Errorf("CAPTCHA manquant")
	}
	if !cap.store.Verify(captchaID, captchaAnswer, true) {
		return fmt.Errorf("CAPTCHA incorrect")
	}
	return nil
}

func (cap *Captchas) CaptchaHandler(c *gin.Context, production bool) {
	data, err := cap.GenerateCaptcha(production)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}
