package main

import (
	"flag"
	"fmt"
	"os"

	"neuronet/internal/clmiddleware"
	"neuronet/internal/handlers/admin"
	"neuronet/internal/handlers/api"
	"neuronet/internal/models/clconfig"
	"neuronet/internal/models/cllog"
	"neuronet/internal/models/clsite"

	"github.com/andskur/argon2-hashing"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	// VERSION et BuildID sont injectés au build via -ldflags
	VERSION = "dev"
	BuildID = ""
)

func main() {
	if BuildID == "" {
		BuildID = VERSION
	}

	configFile, shouldCreateExample, versionDisplay, err := parseCommandLineArgs()
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	if versionDisplay {
		fmt.Printf("neuronet version %s build %s\n", VERSION, BuildID)
		os.Exit(0)
	}

	clconfig.CreateExample(shouldCreateExample, configFile)

	configuration, err := clconfig.LoadConfig(configFile)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	cllog.InitLogger(configuration.Logger, configuration.Production)
	hashAdminPassword(configuration, configFile)
	clconfig.DisplayConfiguration(configuration, VERSION)

	site := clsite.Init(configuration, VERSION, BuildID)
	defer site.Stop()

	r := newServer(configuration)
	setMiddleware(r, site)
	setRoutes(r, site)

	startServer(r, configuration)
}

// hashAdminPassword remplace le mot de passe en clair par son hash argon2
// au premier lancement, puis réécrit la configuration.
func hashAdminPassword(conf *clconfig.Config, configFile string) {
	if conf.User.Pass == "" {
		return
	}

	hash, err := argon2.GenerateFromPassword([]byte(conf.User.Pass), argon2.DefaultParams)
	if err != nil {
		log.Fatal().Err(err).Msg("Impossible de hasher le mot de passe admin")
	}
	conf.User.Hash = string(hash)
	conf.User.Pass = ""

	if err := clconfig.WriteConfigYaml(configFile, conf); err != nil {
		log.Warn().Err(err).Msg("Configuration non réécrite, le hash restera en mémoire")
	} else {
		log.Info().Msg("Mot de passe admin hashé en argon2 dans la configuration")
	}
}

func newServer(conf *clconfig.Config) *gin.Engine {
	if conf.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	if len(conf.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(conf.TrustedProxies); err != nil {
			log.Fatal().Err(err).Msg("Trusted proxies invalides")
		}
	}
	if conf.TrustedPlatform != "" {
		r.TrustedPlatform = conf.TrustedPlatform
	}

	return r
}

func setMiddleware(r *gin.Engine, site *clsite.Neuronet) {
	clmiddleware.InitMiddleware(r, site.Configuration.Production)

	if site.Configuration.Analytics.Enabled {
		am := clmiddleware.NewAnalyticsMiddleware(site.Analytics, site.Configuration.Analytics.GeoIPPath)
		r.Use(am.Handler())
	}
}

func setRoutes(r *gin.Engine, site *clsite.Neuronet) {
	apiHandler := api.New(site)
	adminHandler := admin.New(site)

	limiter := clmiddleware.NewLimiter()

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/contact", limiter, apiHandler.Contact)
		apiGroup.GET("/captcha", apiHandler.Captcha)
		apiGroup.POST("/newsletter/subscribe", limiter, apiHandler.Subscribe)
		apiGroup.POST("/newsletter/unsubscribe", apiHandler.Unsubscribe)
		apiGroup.GET("/unsubscribe", apiHandler.Unsubscribe)
		apiGroup.POST("/analytics/page-view", apiHandler.PageView)
		apiGroup.POST("/analytics/interaction", apiHandler.Interaction)
		apiGroup.POST("/chatbot", apiHandler.Chatbot)
		apiGroup.POST("/chatbot/session", apiHandler.ChatbotSession)

		apiGroup.POST("/admin/login", adminHandler.Login)

		adminGroup := apiGroup.Group("/admin", admin.AuthRequired())
		{
			adminGroup.POST("/logout", adminHandler.Logout)
			adminGroup.GET("/analytics", adminHandler.Analytics)
			adminGroup.GET("/analytics/realtime", adminHandler.Realtime)
			adminGroup.GET("/contacts", adminHandler.Contacts)
			adminGroup.GET("/subscribers", adminHandler.Subscribers)
			adminGroup.POST("/newsletter/run", adminHandler.RunNewsletter)
		}
	}

	// Lien de désinscription des emails
	r.GET("/unsubscribe", apiHandler.Unsubscribe)
}

func startServer(r *gin.Engine, conf *clconfig.Config) {
	log.Info().Str("listen", conf.Listen.Website).Msg("Serveur démarré")
	if err := r.Run(conf.Listen.Website); err != nil {
		log.Fatal().Err(err).Msg("Serveur arrêté en erreur")
	}
}

func parseCommandLineArgs() (configFile string, shouldCreateExample bool, versionDisplay bool, err error) {
	var config = flag.String("config", "", "Fichier de configuration YAML")
	var example = flag.Bool("example", false, "Créer un fichier de configuration exemple")
	var version = flag.Bool("version", false, "version du produit")
	flag.Parse()

	if *version {
		return "", false, true, nil
	}

	if *example {
		return "", true, false, nil
	}

	if *config == "" {
		return "", false, false, fmt.Errorf("fichier de configuration requis")
	}

	return *config, false, false, nil
}
