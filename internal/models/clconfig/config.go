package clconfig

import (
	"fmt"
	"log/syslog"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	TrustedProxies  []string         `yaml:"trustedproxies"`
	TrustedPlatform string           `yaml:"trustedplatform"`
	Production      bool             `yaml:"production"`
	Listen          ListenConfig     `yaml:"listen"`
	Database        DatabaseConfig   `yaml:"database"`
	Logger          LoggerConfig     `yaml:"logger"`
	User            UserConfig       `yaml:"user"`
	Site            SiteConfig       `yaml:"site"`
	AI              AIConfig         `yaml:"ai"`
	Mail            MailConfig       `yaml:"mail"`
	Newsletter      NewsletterConfig `yaml:"newsletter"`
	Captcha         CaptchaConfig    `yaml:"captcha"`
	Analytics       AnalyticsConfig  `yaml:"analytics"`
}

type ListenConfig struct {
	Website string `yaml:"website"`
}

type DatabaseConfig struct {
	Db    string      `yaml:"db"`
	Path  string      `yaml:"path"`
	Dsn   string      `yaml:"dsn"`
	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	Db   int    `yaml:"db"`
}

type LoggerConfig struct {
	Level  string             `yaml:"level"`
	File   LoggerFileConfig   `yaml:"file"`
	Syslog LoggerSyslogConfig `yaml:"syslog"`
}

type LoggerFileConfig struct {
	Enable     bool   `yaml:"enable"`
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxsize"`
	MaxBackups int    `yaml:"maxbackups"`
	MaxAge     int    `yaml:"maxage"`
	Compress   bool   `yaml:"compress"`
}

type LoggerSyslogConfig struct {
	Enable   bool            `yaml:"enable"`
	Protocol string          `yaml:"protocol"`
	Address  string          `yaml:"address"`
	Tag      string          `yaml:"tag"`
	Priority syslog.Priority `yaml:"priority"`
}

type UserConfig struct {
	Login string `yaml:"login"`
	Pass  string `yaml:"pass"`
	Hash  string `yaml:"hash"`
}

// SiteConfig regroupe les coordonnées affichées par le chatbot et la newsletter.
type SiteConfig struct {
	Name     string `yaml:"name"`
	BaseURL  string `yaml:"baseurl"`
	Phone    string `yaml:"phone"`
	Email    string `yaml:"email"`
	LinkedIn string `yaml:"linkedin"`
}

type AIConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	APIKey      string  `yaml:"apikey"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"maxtokens"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Password string `yaml:"password"`
	To       string `yaml:"to"`
}

type NewsletterConfig struct {
	Enable  bool   `yaml:"enable"`
	Cron    string `yaml:"cron"`
	DelayMs int    `yaml:"delayms"`
}

type CaptchaConfig struct {
	Enable bool `yaml:"enable"`
}

type AnalyticsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	GeoIPPath     string `yaml:"geoippath"`
	RetentionDays int    `yaml:"retentiondays"`
}

func CreateExampleConfig(filename string) (string, error) {
	example := &Config{
		Production: false,
		Listen: ListenConfig{
			Website: "0.0.0.0:8080",
		},
		Database: DatabaseConfig{
			Db:   "sqlite",
			Path: "./neuronet.db",
		},
		Logger: LoggerConfig{
			Level: "info",
			File: LoggerFileConfig{
				Enable: false,
			},
			Syslog: LoggerSyslogConfig{
				Enable: false,
			},
		},
		User: UserConfig{
			Login: "admin",
			Pass:  "admin1234",
		},
		Site: SiteConfig{
			Name:     "NeuroNet AI Solutions",
			BaseURL:  "http://localhost:8080",
			Phone:    "+263 78 549 4594",
			Email:    "ngonidzashezimbwa95@gmail.com",
			LinkedIn: "NeuroNet AI Solutions",
		},
		AI: AIConfig{
			Endpoint:    "https://api.deepseek.com/chat/completions",
			Model:       "deepseek-chat",
			MaxTokens:   500,
			Temperature: 0.7,
			TimeoutSec:  20,
		},
		Newsletter: NewsletterConfig{
			Enable:  true,
			Cron:    "0 9 * * *",
			DelayMs: 1000,
		},
		Analytics: AnalyticsConfig{
			Enabled:       true,
			RetentionDays: 365,
		},
	}

	if filename == "/etc/" {
		example.Listen.Website = "127.0.0.1:8000"
		example.Production = true
		example.Database.Path = "/var/lib/neuronet/sqlite.db"
		example.Logger.File = LoggerFileConfig{
			Enable:     true,
			Path:       "/var/log/neuronet/neuronet.log",
			MaxSize:    100,
			MaxBackups: 30,
			MaxAge:     7,
			Compress:   true,
		}
		filename = "/etc/neuronet/config.yaml"
	}

	return filename, WriteConfigYaml(filename, example)
}

func WriteConfigYaml(filename string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("erreur de sérialisation YAML: %v", err)
	}
	return os.WriteFile(filename, data, 0644)
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("impossible de lire le fichier %s: %v", filename, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("erreur de parsing YAML: %v", err)
	}

	applyDefaults(&config)
	return &config, nil
}

// applyDefaults complète les champs absents du YAML avec les valeurs usuelles.
func applyDefaults(config *Config) {
	if config.AI.Endpoint == "" {
		config.AI.Endpoint = "https://api.deepseek.com/chat/completions"
	}
	if config.AI.Model == "" {
		config.AI.Model = "deepseek-chat"
	}
	if config.AI.MaxTokens == 0 {
		config.AI.MaxTokens = 500
	}
	if config.AI.Temperature == 0 {
		config.AI.Temperature = 0.7
	}
	if config.AI.TimeoutSec == 0 {
		config.AI.TimeoutSec = 20
	}
	if config.Newsletter.Cron == "" {
		config.Newsletter.Cron = "0 9 * * *"
	}
	if config.Newsletter.DelayMs == 0 {
		config.Newsletter.DelayMs = 1000
	}
	if config.Analytics.RetentionDays == 0 {
		config.Analytics.RetentionDays = 365
	}
	if config.Site.Name == "" {
		config.Site.Name = "NeuroNet AI Solutions"
	}
}

func CreateExample(shouldCreateExample bool, configFile string) {
	if shouldCreateExample {
		if err := handleExampleCreation(configFile); err != nil {
			fmt.Printf("❌ %v\n", err)
		}
		os.Exit(1)
	}

	_, err := os.Stat(configFile)
	if err != nil && os.IsNotExist(err) {
		if err := handleExampleCreation(configFile); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
	}
}

func handleExampleCreation(filename string) error {
	if filename == "" {
		filename = "neuronet.yaml"
	}
	filename, err := CreateExampleConfig(filename)
	if err != nil {
		return fmt.Errorf("erreur création exemple: %v", err)
	}

	fmt.Printf("✅ Fichier exemple créé: %s", filename)
	fmt.Println("⚠️  User.pass sera automatiquement hash en argon2 dans User.hash au premier lancement")
	return nil
}
