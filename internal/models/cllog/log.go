package cllog

import (
	"fmt"
	"io"
	"log/syslog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"neuronet/internal/models/clconfig"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger configure le logger global Zerolog: console en
// développement, JSON pur en production, avec rotation de fichier et
// syslog en option.
func InitLogger(cfg clconfig.LoggerConfig, production bool) {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return path.Base(file) + ":" + strconv.Itoa(line)
	}
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	log.Logger = zerolog.New(buildOutput(cfg, production)).
		With().
		Timestamp().
		Caller().
		Logger()

	environnment := "developpement"
	if production {
		environnment = "production"
	}
	log.Info().
		Str("environment", environnment).
		Str("level", cfg.Level).
		Bool("log_to_file", cfg.File.Enable).
		Bool("log_to_syslog", cfg.Syslog.Enable).
		Msg("Logger initialized")
}

// buildOutput assemble les destinations actives en un seul writer.
func buildOutput(cfg clconfig.LoggerConfig, production bool) io.Writer {
	var writers []io.Writer

	if !production {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}

	if cfg.File.Enable {
		w, err := buildFileWriter(cfg.File)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to setup file writer")
		}
		writers = append(writers, w)
	}

	if cfg.Syslog.Enable {
		w, err := buildSyslogWriter(cfg.Syslog)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to setup syslog writer")
		}
		writers = append(writers, w)
	}

	if len(writers) == 0 {
		return os.Stdout
	}
	return io.MultiWriter(writers...)
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// buildFileWriter prépare la rotation lumberjack, dossier créé au besoin.
func buildFileWriter(cfg clconfig.LoggerFileConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, err
	}

	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}, nil
}

func buildSyslogWriter(cfg clconfig.LoggerSyslogConfig) (io.Writer, error) {
	tag := cfg.Tag
	if tag == "" {
		tag = "neuronet"
	}
	priority := cfg.Priority
	if priority == 0 {
		priority = syslog.LOG_INFO | syslog.LOG_LOCAL0
	}

	var writer *syslog.Writer
	var err error

	// Socket Unix local sans adresse, TCP/UDP sinon
	if cfg.Protocol == "" || cfg.Address == "" {
		writer, err = syslog.New(priority, tag)
	} else {
		writer, err = syslog.Dial(cfg.Protocol, cfg.Address, priority, tag)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to syslog: %w", err)
	}

	return &SyslogLevelWriter{Writer: writer}, nil
}

// SyslogLevelWriter route chaque ligne JSON zerolog vers la sévérité
// syslog correspondante.
type SyslogLevelWriter struct {
	Writer *syslog.Writer
}

func (w *SyslogLevelWriter) Write(p []byte) (n int, err error) {
	msg := string(p)

	switch levelOf(msg) {
	case "debug":
		return len(p), w.Writer.Debug(msg)
	case "warn", "warning":
		return len(p), w.Writer.Warning(msg)
	case "error":
		return len(p), w.Writer.Err(msg)
	case "fatal", "panic":
		return len(p), w.Writer.Crit(msg)
	default:
		return len(p), w.Writer.Info(msg)
	}
}

// levelOf lit le champ `"level":"xxx"` d'une ligne JSON zerolog.
func levelOf(msg string) string {
	const marker = `"level":"`
	start := strings.Index(msg, marker)
	if start == -1 {
		return ""
	}
	start += len(marker)

	end := strings.Index(msg[start:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start : start+end]
}
