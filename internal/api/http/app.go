package http

import (
	gojson "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/request-service/internal/config"
)

// NewApp builds the fiber application with the go-json codec.
func NewApp(cfg config.AppConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               cfg.Name,
		ReadTimeout:           cfg.RequestTimeout(),
		WriteTimeout:          cfg.RequestTimeout(),
		JSONEncoder:           gojson.Marshal,
		JSONDecoder:           gojson.Unmarshal,
		DisableStartupMessage: true,
	})
}
