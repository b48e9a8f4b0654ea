package rest

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// TokenVerifier resolves a signed token back to the file path it covers.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Files serves cached artifacts through single-use style signed URLs. Every
// failure mode collapses to the same 404 so the response leaks nothing
// about why a token was rejected.
type Files struct {
	Tokens TokenVerifier
}

func InitRestFiles(app fiber.Router, tokens TokenVerifier) Files {
	rest := Files{Tokens: tokens}
	app.Get("/files/:token", rest.Serve)
	return rest
}

func (handler *Files) Serve(c *fiber.Ctx) error {
	token := c.Params("token")

	filePath, err := handler.Tokens.Verify(token)
	if err != nil {
		logrus.Warnf("[FILES] Rejected token: %v", err)
		return c.Status(fiber.StatusNotFound).SendString("File not found or token expired")
	}

	if _, err := os.Stat(filePath); err != nil {
		logrus.Warnf("[FILES] Token valid but file missing: %s", filePath)
		return c.Status(fiber.StatusNotFound).SendString("File not found or token expired")
	}

	return c.SendFile(filePath)
}
