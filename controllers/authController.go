package controllers

import (
	"errors"
	"strings"

	"ledger-backend/database"
	"ledger-backend/middlewares"
	"ledger-backend/models"

	"github.com/gofiber/fiber/v2"
)

type RegisterDTO struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginDTO struct {
	Login    string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func authResponse(user *models.User, token string) fiber.Map {
	return fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	}
}

// POST /api/auth/register
func Register(c *fiber.Ctx) error {
	var in RegisterDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	db, err := database.GetDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db unavailable")
	}

	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var count int64
	if err := db.Model(&models.User{}).Where("username = ? OR email = ?", username, email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "username or email already exists")
	}

	user := models.User{Username: username, Email: email, IsActive: true}
	if err := user.SetPassword(in.Password); err != nil {
		return err
	}
	if err := db.Create(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create user")
	}

	token, err := middlewares.GenerateJWT(user.ID, user.Username)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse(&user, token))
}

// POST /api/auth/login
func Login(c *fiber.Ctx) error {
	var in LoginDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	db, err := database.GetDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db unavailable")
	}

	user, err := database.FindUserByLogin(db, in.Login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}
	if err := user.ComparePassword(in.Password); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return fiber.NewError(fiber.StatusUnauthorized, "account is deactivated")
	}

	token, err := middlewares.GenerateJWT(user.ID, user.Username)
	if err != nil {
		return err
	}
	return c.JSON(authResponse(user, token))
}
