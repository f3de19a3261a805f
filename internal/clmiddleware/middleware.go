package clmiddleware

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// InitMiddleware installe la pile commune: log, recovery, gzip,
// sessions cookie et CORS.
func InitMiddleware(r *gin.Engine, production bool) {
	r.Use(Logger())
	r.Use(Recovery())
	r.Use(gzip.Gzip(gzip.BestSpeed))
	r.Use(NewSession(production))
	r.Use(CORS)
}

// CORS autorise le front à appeler l'API depuis n'importe quelle origine.
func CORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// NewLimiter protège les formulaires publics: 5 requêtes par minute et par IP
func NewLimiter() gin.HandlerFunc {
	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  5,
	})
	return ginlimiter.NewMiddleware(instance)
}

// NewSession installe le store cookie, une semaine de durée de vie.
func NewSession(production bool) gin.HandlerFunc {
	store := cookie.NewStore(generateSecretKey())
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   production,
	})
	return sessions.Sessions("neuronet", store)
}

// Logger journalise chaque requête avec un niveau dépendant du statut:
// les 404 en debug pour ne pas noyer le log sous les scans.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		var event *zerolog.Event
		status := c.Writer.Status()
		switch {
		case status == http.StatusNotFound:
			event = log.Debug()
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Int("body_size", c.Writer.Size()).
			Msg("HTTP Request")

		for _, err := range c.Errors {
			log.Error().Err(err.Err).Msg("Request error")
		}
	}
}

// Recovery transforme un panic de handler en 500 JSON.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("path", c.Request.URL.Path).
					Str("method", c.Request.Method).
					Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}

func generateSecretKey() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(fmt.Sprintf("impossible de générer la clé de session: %v", err))
	}
	return key
}
