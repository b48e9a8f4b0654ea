package rest

import (
	domainCache "ytmcp/domains/cache"
	"ytmcp/pkg/utils"
	"ytmcp/validations"

	"github.com/gofiber/fiber/v2"
)

type Cache struct {
	Service domainCache.ICacheUsecase
}

func InitRestCache(app fiber.Router, service domainCache.ICacheUsecase) Cache {
	rest := Cache{Service: service}

	group := app.Group("/api/cache")
	group.Get("/files", rest.ListFiles)
	group.Get("/stats", rest.GetStats)
	group.Get("/settings", rest.GetSettings)
	group.Put("/settings", rest.UpdateSettings)

	return rest
}

func (handler *Cache) ListFiles(c *fiber.Ctx) error {
	files, err := handler.Service.ListFiles()
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache files retrieved",
		Results: files,
	})
}

func (handler *Cache) GetStats(c *fiber.Ctx) error {
	stats, err := handler.Service.GetStats(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache stats retrieved",
		Results: stats,
	})
}

func (handler *Cache) GetSettings(c *fiber.Ctx) error {
	settings, err := handler.Service.GetSettings(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache settings retrieved",
		Results: settings,
	})
}

func (handler *Cache) UpdateSettings(c *fiber.Ctx) error {
	var settings domainCache.CacheSettings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	}

	err := validations.ValidateCacheSettings(c.UserContext(), settings)
	utils.PanicIfNeeded(err)

	err = handler.Service.SaveSettings(c.UserContext(), settings)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache settings updated successfully",
	})
}
