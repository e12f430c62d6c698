package main

import (
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/workline/docspace-crm-plugin/backend"
)

// stubStore is the in-memory state behind the stub backend.
type stubStore struct {
	lock     sync.Mutex
	settings backend.Settings
	user     backend.User
	rooms    map[int64]string
}

// newStubBackend serves the plugin's /api/v1 surface in process, verifying
// the dev host's tokens the way the real backend verifies CRM signatures.
func newStubBackend(secret string) *fiber.App {
	store := &stubStore{
		settings: backend.Settings{
			URL:               "https://workspace.localhost",
			APIKey:            "dev-api-key",
			APIKeyValid:       true,
			WebhooksInstalled: true,
			ExistSystemUser:   true,
		},
		user: backend.User{
			IsAdmin: true,
			DocspaceAccount: &backend.DocspaceAccount{
				UserName:      "dev@example.com",
				PasswordHash:  "dev-hash",
				CanCreateRoom: true,
			},
		},
		rooms: make(map[int64]string),
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	api := app.Group("/api/v1", requireSignedToken(secret))

	api.Get("/settings", func(c *fiber.Ctx) error {
		store.lock.Lock()
		defer store.lock.Unlock()
		return c.JSON(store.settings)
	})

	api.Put("/settings", func(c *fiber.Ctx) error {
		var body struct {
			URL    string `json:"url"`
			APIKey string `json:"apiKey"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "invalid-body"})
		}

		store.lock.Lock()
		defer store.lock.Unlock()
		store.settings.URL = body.URL
		store.settings.APIKey = body.APIKey
		store.settings.APIKeyValid = body.APIKey != ""
		return c.JSON(store.settings)
	})

	api.Delete("/settings", func(c *fiber.Ctx) error {
		store.lock.Lock()
		defer store.lock.Unlock()
		store.settings = backend.Settings{}
		return c.SendStatus(fiber.StatusOK)
	})

	api.Post("/settings/validate-api-key", func(c *fiber.Ctx) error {
		store.lock.Lock()
		defer store.lock.Unlock()
		if store.settings.APIKey == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": backend.CodeInvalidAPIKey})
		}
		store.settings.APIKeyValid = true
		return c.JSON(store.settings)
	})

	api.Get("/user", func(c *fiber.Ctx) error {
		store.lock.Lock()
		defer store.lock.Unlock()
		return c.JSON(store.user)
	})

	api.Put("/user/docspace-account", func(c *fiber.Ctx) error {
		var body struct {
			UserName     string `json:"userName"`
			PasswordHash string `json:"passwordHash"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "invalid-body"})
		}

		store.lock.Lock()
		defer store.lock.Unlock()
		if store.settings.URL == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"cause": backend.CauseURLNotFound})
		}
		store.user.DocspaceAccount = &backend.DocspaceAccount{
			UserName:      body.UserName,
			PasswordHash:  body.PasswordHash,
			CanCreateRoom: true,
		}
		return c.SendStatus(fiber.StatusOK)
	})

	api.Delete("/user/docspace-account", func(c *fiber.Ctx) error {
		store.lock.Lock()
		defer store.lock.Unlock()
		store.user.DocspaceAccount = nil
		return c.SendStatus(fiber.StatusOK)
	})

	api.Get("/room/:dealId", func(c *fiber.Ctx) error {
		dealID, err := strconv.ParseInt(c.Params("dealId"), 10, 64)
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		store.lock.Lock()
		defer store.lock.Unlock()
		roomID, ok := store.rooms[dealID]
		if !ok {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.JSON(backend.Room{RoomID: roomID, DealID: dealID})
	})

	api.Post("/room/:dealId", func(c *fiber.Ctx) error {
		dealID, err := strconv.ParseInt(c.Params("dealId"), 10, 64)
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		var body struct {
			RoomID string `json:"roomId"`
		}
		if err := c.BodyParser(&body); err != nil || body.RoomID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "invalid-body"})
		}

		store.lock.Lock()
		defer store.lock.Unlock()
		store.rooms[dealID] = body.RoomID
		return c.JSON(backend.Room{RoomID: body.RoomID, DealID: dealID})
	})

	api.Post("/room/:dealId/request-access", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	api.Delete("/room/:dealId", func(c *fiber.Ctx) error {
		dealID, err := strconv.ParseInt(c.Params("dealId"), 10, 64)
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		store.lock.Lock()
		defer store.lock.Unlock()
		delete(store.rooms, dealID)
		return c.SendStatus(fiber.StatusOK)
	})

	return app
}

func requireSignedToken(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		const prefix = "Bearer "
		if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		_, err := jwtlib.Parse(auth[len(prefix):], func(t *jwtlib.Token) (any, error) {
			if t.Method != jwtlib.SigningMethodHS256 {
				return nil, jwtlib.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.Next()
	}
}
