package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init construye el logger global a partir de la configuración. Solo la
// primera llamada tiene efecto; llamadas posteriores son no-ops.
func Init(cfg Config) {
	once.Do(func() {
		instance = build(cfg)
	})
}

// L retorna el logger global, inicializándolo con valores de desarrollo
// si nadie llamó a Init todavía (útil en tests).
func L() *zap.Logger {
	if instance == nil {
		Init(Config{Env: "dev", Level: "info"})
	}
	return instance
}

// Named retorna el logger global con nombre de componente.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// With retorna el logger global con campos fijos adicionales.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync vuelca buffers pendientes; pensado para defer en main.
func Sync() error {
	if instance == nil {
		return nil
	}
	return instance.Sync()
}
