package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/dealsbackend/dto"
	"github.com/princinho/dealsbackend/services"
)

// POST /connection/signup
func Signup(accounts *services.AccountService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.SignupDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}

		user, token, err := accounts.Signup(c.Request.Context(), services.SignupInput{
			Email:     body.Email,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			Password:  body.Password,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		setTokenCookie(c, cookies, token)
		c.JSON(http.StatusCreated, gin.H{
			"id":      user.ID,
			"email":   user.Email,
			"message": "account created, check your email to verify it",
		})
	}
}

// POST /connection/login
func Login(accounts *services.AccountService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}

		res := accounts.Login(c.Request.Context(), body.Email, body.Password)
		if res.Success {
			setTokenCookie(c, cookies, res.Token)
		}
		c.JSON(res.Status, res)
	}
}

// GET /connection/verify-email?token=
func VerifyEmail(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := accounts.VerifyEmail(c.Request.Context(), c.Query("token")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "email verified"})
	}
}

// POST /connection/forgot-password
func ForgotPassword(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ForgotPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := accounts.ForgotPassword(c.Request.Context(), body.Email); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "reset email sent"})
	}
}

// POST /connection/reset-password
func ResetPassword(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ResetPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := accounts.ResetPassword(c.Request.Context(), body.Token, body.NewPassword); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}

// PUT /connection/:id
func UpdateProfile(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester, ok := currentIdentity(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var body dto.UpdateProfileDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}

		identity, err := accounts.UpdateProfile(c.Request.Context(), requester, id, services.ProfileUpdate{
			FirstName: body.FirstName,
			LastName:  body.LastName,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, identity)
	}
}
