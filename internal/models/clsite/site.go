package clsite

import (
	"fmt"
	"log"

	"neuronet/internal/gormzerologger"
	"neuronet/internal/models/clai"
	"neuronet/internal/models/clanalytics"
	"neuronet/internal/models/clcaptchas"
	"neuronet/internal/models/clconfig"
	"neuronet/internal/models/clcontacts"
	"neuronet/internal/models/clmail"
	"neuronet/internal/models/clnewsletter"
	"neuronet/internal/models/clsubscribers"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	instance *Neuronet
)

// Neuronet tient l'état partagé de l'application: base, services et cron
type Neuronet struct {
	Db            *gorm.DB
	Redis         *redis.Client
	Configuration *clconfig.Config
	Contacts      *clcontacts.Service
	Subscribers   *clsubscribers.Service
	Analytics     *clanalytics.AnalyticsService
	AI            *clai.Client
	Mailer        *clmail.Mailer
	Newsletter    *clnewsletter.Runner
	Captcha       *clcaptchas.Captchas
	Cron          *cron.Cron
	Version       string
	BuildID       string
}

func GetInstance() *Neuronet {
	if instance == nil {
		instance = &Neuronet{}
	}
	return instance
}

func Init(config *clconfig.Config, version string, buildid string) *Neuronet {
	instance = &Neuronet{
		Configuration: config,
		Version:       version,
		BuildID:       buildid,
	}
	instance.initDatabase()
	instance.initRedis()
	instance.initServices()
	instance.initCron()
	return instance
}

func (nn *Neuronet) initDatabase() {
	var err error

	// Logger GORM branché sur Zerolog
	level := "warn"
	if nn.Configuration.Logger.Level == "debug" || !nn.Configuration.Production {
		level = "trace"
	}
	gormLogger := gormzerologger.New(level)

	var db *gorm.DB
	switch nn.Configuration.Database.Db {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(nn.Configuration.Database.Path), &gorm.Config{
			Logger:         gormLogger,
			TranslateError: true,
		})
	case "mysql":
		db, err = gorm.Open(mysql.Open(nn.Configuration.Database.Dsn), &gorm.Config{
			Logger:         gormLogger,
			TranslateError: true,
		})
	case "postgres":
		db, err = gorm.Open(postgres.Open(nn.Configuration.Database.Dsn), &gorm.Config{
			Logger:         gormLogger,
			TranslateError: true,
		})
	default:
		err = fmt.Errorf("le type de database doit etre sqlite, mysql ou postgres")
	}

	if err != nil {
		log.Fatal(err, "Erreur connexion base de données:")
	}

	err = db.AutoMigrate(
		&clcontacts.Contact{},
		&clsubscribers.EmailSubscription{},
		&clanalytics.PageView{},
		&clanalytics.Interaction{},
		&clanalytics.ChatbotSession{},
	)
	if err != nil {
		log.Fatal(err, "Erreur migration:")
	}

	nn.Db = db
}

func (nn *Neuronet) initRedis() {
	if nn.Configuration.Database.Redis.Addr == "" {
		return
	}
	nn.Redis = redis.NewClient(&redis.Options{
		Addr: nn.Configuration.Database.Redis.Addr,
		DB:   nn.Configuration.Database.Redis.Db,
	})
}

func (nn *Neuronet) initServices() {
	cfg := nn.Configuration

	nn.Contacts = clcontacts.NewService(nn.Db)
	nn.Subscribers = clsubscribers.NewService(nn.Db)
	nn.Analytics = clanalytics.NewService(nn.Db, nn.Redis, cfg.Analytics.RetentionDays)
	nn.AI = clai.NewClient(cfg.AI)
	nn.Mailer = clmail.New(cfg.Mail, cfg.Site.Name)

	// Un mailer nil reste nil dans l'interface: la campagne journalise sans envoyer
	var sender clmail.Sender
	if nn.Mailer != nil {
		sender = nn.Mailer
	}
	nn.Newsletter = clnewsletter.NewRunner(nn.Subscribers, sender, cfg.Site, cfg.Newsletter)

	if cfg.Captcha.Enable {
		nn.Captcha = clcaptchas.New(cfg.Database.Redis.Addr, cfg.Database.Redis.Db)
	}
}

// initCron programme la campagne quotidienne et la purge analytics
// sur un ordonnanceur partagé.
func (nn *Neuronet) initCron() {
	nn.Cron = cron.New()

	if nn.Configuration.Newsletter.Enable {
		if err := nn.Newsletter.Schedule(nn.Cron, nn.Configuration.Newsletter.Cron); err != nil {
			log.Fatal(err, "Expression cron newsletter invalide:")
		}
	}

	nn.Cron.Start()

	if nn.Configuration.Analytics.Enabled {
		nn.Analytics.SetupCleanupCron()
	}
}

// Stop arrête proprement les tâches planifiées.
func (nn *Neuronet) Stop() {
	if nn.Cron != nil {
		nn.Cron.Stop()
	}
	nn.Analytics.StopCron()
}
