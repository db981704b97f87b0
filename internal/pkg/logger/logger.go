package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repository) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
}

// SlogLogger é a implementação concreta da interface Logger sobre log/slog,
// com saída JSON (uma linha por entrada).
type SlogLogger struct {
	log  *slog.Logger
	exit func(code int)
}

// NewLogger cria e retorna uma nova instância do Logger escrevendo em stdout.
// Esta função é chamada no main.go.
func NewLogger(level string) Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter permite direcionar a saída (útil em testes).
func NewWithWriter(level string, w io.Writer) *SlogLogger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &SlogLogger{log: slog.New(handler), exit: os.Exit}
}

// NewNop descarta todas as entradas.
func NewNop() Logger {
	return NewWithWriter("error", io.Discard)
}

// parseLevel aceita "debug", "info", "warn", "error" (sem diferenciar maiúsculas).
// Valores desconhecidos usam info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *SlogLogger) logFields(level slog.Level, msg string, fields map[string]interface{}) {
	if !l.log.Enabled(context.Background(), level) {
		return
	}
	attrs := make([]slog.Attr, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.log.LogAttrs(context.Background(), level, msg, attrs...)
}

// Implementações da Interface Logger

func (l *SlogLogger) Debug(msg string, fields map[string]interface{}) {
	l.logFields(slog.LevelDebug, msg, fields)
}

func (l *SlogLogger) Info(msg string, fields map[string]interface{}) {
	l.logFields(slog.LevelInfo, msg, fields)
}

func (l *SlogLogger) Warn(msg string, fields map[string]interface{}) {
	l.logFields(slog.LevelWarn, msg, fields)
}

func (l *SlogLogger) Error(msg string, err error) {
	l.logFields(slog.LevelError, msg, errorFields(err))
}

// Fatal registra o erro e encerra o processo.
func (l *SlogLogger) Fatal(msg string, err error) {
	fields := errorFields(err)
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["fatal"] = true
	l.logFields(slog.LevelError, msg, fields)
	l.exit(1)
}

func errorFields(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	return map[string]interface{}{"error": err.Error()}
}
