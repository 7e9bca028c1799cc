package controllers

import (
	"strconv"

	"github.com/apazos/monopoly-ledger/app/models"
	"github.com/apazos/monopoly-ledger/pkg"
	"github.com/apazos/monopoly-ledger/platform/database"
	"github.com/apazos/monopoly-ledger/platform/economy"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func CreateSession(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	dto := new(models.SessionCreateDto)
	if err := c.BodyParser(dto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	cfg := economy.Config{
		AnchorValue:     dto.AnchorValue,
		MinDenomination: dto.MinDenomination,
	}
	if cfg.AnchorValue == 0 {
		cfg.AnchorValue = economy.DefaultConfig().AnchorValue
	}
	if cfg.MinDenomination == 0 {
		cfg.MinDenomination = economy.DefaultConfig().MinDenomination
	}
	if _, err := economy.NewScaler(cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	session := &models.Session{
		Id:              pkg.RandString(8),
		Name:            dto.Name,
		Status:          "open",
		AnchorValue:     cfg.AnchorValue,
		MinDenomination: cfg.MinDenomination,
	}

	if _, err := db.Model(session).Insert(); err != nil {
		logrus.WithError(err).Error("failed to create session")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{"id": session.Id})
}

func GetAllAvailSessions(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	var sessions []models.Session
	if err := db.Model(&sessions).Where("status = ?", "open").Select(); err != nil {
		logrus.WithError(err).Error("failed to list sessions")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(sessions)
}

func VerifySession(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	dto := new(models.VerifySessionDto)
	if err := c.QueryParser(dto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	session := &models.Session{Id: dto.Code}
	if err := db.Model(session).WherePK().Select(); err != nil {
		return c.JSON(fiber.Map{"status": false})
	}
	return c.JSON(fiber.Map{"status": true})
}

// ScaledValue maps a reference-ruleset amount into a session's economy.
// GET /session/scale?code=<id>&value=<reference amount>
func ScaledValue(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	code := c.Query("code")
	value, err := strconv.ParseInt(c.Query("value"), 10, 64)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	session := &models.Session{Id: code}
	if err := db.Model(session).WherePK().Select(); err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	scaler, err := economy.NewScaler(economy.Config{
		AnchorValue:     session.AnchorValue,
		MinDenomination: session.MinDenomination,
	})
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{
		"reference": value,
		"scaled":    scaler.ScaleInt(value),
		"salary":    scaler.Salary(),
		"factor":    scaler.Factor(),
	})
}
