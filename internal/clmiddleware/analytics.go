package clmiddleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/netip"
	"strings"
	"time"

	"neuronet/internal/models/clanalytics"

	"github.com/gin-gonic/gin"
	"github.com/oschwald/geoip2-golang/v2"
	"github.com/rs/zerolog/log"
)

// AnalyticsMiddleware capture les visites servies par le backend.
// L'enregistrement part en goroutine, la requête n'attend jamais l'analytics.
type AnalyticsMiddleware struct {
	Service *clanalytics.AnalyticsService
	geoip   *geoip2.Reader
}

func NewAnalyticsMiddleware(service *clanalytics.AnalyticsService, geoipPath string) *AnalyticsMiddleware {
	am := &AnalyticsMiddleware{Service: service}
	if geoipPath != "" {
		reader, err := geoip2.Open(geoipPath)
		if err != nil {
			log.Warn().Err(err).Str("path", geoipPath).Msg("Base GeoIP indisponible, pays ignoré")
		} else {
			am.geoip = reader
		}
	}
	return am
}

func (am *AnalyticsMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// On ne trace que les pages servies, pas l'API ni les assets
		path := c.Request.URL.Path
		if c.Request.Method != "GET" ||
			strings.HasPrefix(path, "/api") ||
			strings.HasPrefix(path, "/static") ||
			strings.HasPrefix(path, "/files") ||
			c.Writer.Status() >= 400 {
			return
		}

		view := &clanalytics.PageView{
			Page:      path,
			UserAgent: c.Request.UserAgent(),
			IPAddress: c.ClientIP(),
			SessionID: am.visitorID(c),
			Country:   am.country(c.ClientIP()),
		}

		go am.record(view)
	}
}

func (am *AnalyticsMiddleware) record(view *clanalytics.PageView) {
	if err := am.Service.TrackPageView(view); err != nil {
		log.Debug().Err(err).Msg("Vue de page non enregistrée")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	am.Service.RecordRealtime(ctx, view.Page, view.SessionID)
}

// visitorID lit le cookie de session du front, ou dérive un identifiant
// stable de l'IP, la langue et le user-agent.
func (am *AnalyticsMiddleware) visitorID(c *gin.Context) string {
	if cookie, err := c.Cookie("session_id"); err == nil && cookie != "" {
		return cookie
	}

	fingerprint := c.ClientIP() + c.GetHeader("Accept-Language") + c.Request.UserAgent()
	sum := sha256.Sum256([]byte(fingerprint))
	return hex.EncodeToString(sum[:16])
}

func (am *AnalyticsMiddleware) country(ip string) string {
	if am.geoip == nil {
		return ""
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ""
	}
	record, err := am.geoip.Country(addr)
	if err != nil || record == nil {
		return ""
	}
	return record.Country.ISOCode
}

// Close libère la base GeoIP.
func (am *AnalyticsMiddleware) Close() {
	if am.geoip != nil {
		am.geoip.Close()
	}
}
