package clconfig

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// DisplayConfiguration résume la configuration au démarrage
func DisplayConfiguration(config *Config, version string) {
	logPrintf("NeuroNet backend version %s", version)

	logPrintf("Mode Production %v", config.Production)
	logPrintf("Administrateur login %s", config.User.Login)

	logPrintf("Database")
	switch config.Database.Db {
	case "sqlite":
		logPrintf("  • Type sqlite")
		logPrintf("  • Path %s", config.Database.Path)
	case "mysql":
		logPrintf("  • Type mysql")
		logPrintf("  • DSN %s", config.Database.Dsn)
	case "postgres":
		logPrintf("  • Type postgres")
		logPrintf("  • DSN %s", config.Database.Dsn)
	}
	if config.Database.Redis.Addr != "" {
		logPrintf("  • Cache redis %s", config.Database.Redis.Addr)
	}

	if config.AI.APIKey != "" {
		logPrintf("Assistant IA activé (%s)", config.AI.Model)
	} else {
		logPrintf("Assistant IA désactivé, réponses locales uniquement")
	}

	if config.Mail.From != "" && config.Mail.Password != "" {
		logPrintf("Mailer activé pour %s", config.Mail.From)
	} else {
		logPrintf("Mailer désactivé")
	}

	if config.Newsletter.Enable {
		logPrintf("Newsletter quotidienne programmée (%s)", config.Newsletter.Cron)
	} else {
		logPrintf("Newsletter désactivée")
	}

	if config.Analytics.Enabled {
		logPrintf("Analytics activé")
		if config.Analytics.GeoIPPath != "" {
			logPrintf("  • GeoIP %s", config.Analytics.GeoIPPath)
		}
		logPrintf("  • Rétention %d jours", config.Analytics.RetentionDays)
	} else {
		logPrintf("Analytics désactivé")
	}

	logPrintf("Logger en level %s", config.Logger.Level)
	if config.Logger.File.Enable {
		logPrintf("  Log en fichier activé")
		logPrintf("  • Path %s", config.Logger.File.Path)
	}
	if config.Logger.Syslog.Enable {
		logPrintf("  Log en syslog activé")
	}
}

// Info logue avec printf
func logPrintf(format string, a ...any) {
	log.Info().Msg(fmt.Sprintf(format, a...))
}
