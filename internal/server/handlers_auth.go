package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/rcampano/vaquita/internal/auth"
	"github.com/rcampano/vaquita/internal/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (s *Server) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and phone are required")
	}

	user, err := s.authn.Register(c.Context(), req.Phone, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrPhoneExists):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		default:
			return err
		}
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return err
	}

	s.log.Info("user registered", "user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    userJSON(user),
	})
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := s.authn.Authenticate(c.Context(), req.Phone, req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid phone or password")
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    userJSON(user),
	})
}

func userJSON(u *models.User) fiber.Map {
	return fiber.Map{
		"id":    u.ID,
		"name":  u.Name,
		"phone": u.Phone,
	}
}
