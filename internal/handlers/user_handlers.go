package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mvc-is/portal/internal/access"
	"github.com/mvc-is/portal/internal/accounts"
)

// LoginPage is the public landing page. Signed-in users never reach it; the
// access router sends them to their dashboard first.
// GET /
func (h *Handlers) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "login",
		"company": "Mabuhay Vinyl Corp.",
		"tagline": "Enhancing operational efficiency and ensuring accuracy through a reliable and intelligent inventory management system.",
		"actions": gin.H{
			"signIn":         "/auth/login",
			"signUp":         "/auth/signup",
			"forgotPassword": "/auth/password/forgot",
		},
	})
}

// --- Sign Up ---

type SignUpInput struct {
	FullName   string `json:"fullName" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Department string `json:"department" binding:"required"`
}

// SignUp registers a new portal user.
// POST /auth/signup
func (h *Handlers) SignUp(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input SignUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Create the account ---
	user, err := h.Accounts.SignUp(c.Request.Context(), accounts.SignUpInput{
		FullName:   input.FullName,
		Email:      input.Email,
		Password:   input.Password,
		Department: input.Department,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created. You can now sign in.",
		"user":    user,
	})
}

// --- Login ---

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login checks the credentials, sets the session cookie and tells the
// client which dashboard to open.
// POST /auth/login
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Check credentials ---
	sess, err := h.Accounts.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.respondError(c, err)
		return
	}

	// 3. --- Set the session cookie ---
	h.setSessionCookie(c, sess.Token)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"token":    sess.Token,
		"user":     sess.User,
		"redirect": access.NamespaceFor(sess.User.Department),
	})
}

// Logout revokes the current session and clears the cookie.
// POST /auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	h.endSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out", "redirect": access.LoginPath})
}

// --- Password Reset ---

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword mails a reset link. The answer is the same whether or not
// the address belongs to an account.
// POST /auth/password/forgot
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var input ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Accounts.RequestPasswordReset(c.Request.Context(), input.Email); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If an account exists for this email, a reset link has been sent."})
}

type ResetPasswordInput struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ResetPassword sets the new password, then signs the caller out so they
// have to log in again with it.
// POST /auth/password/reset
func (h *Handlers) ResetPassword(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Update the password ---
	if err := h.Accounts.ResetPassword(c.Request.Context(), input.Token, input.Password, input.ConfirmPassword); err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Force sign out ---
	h.endSession(c)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Password updated successfully! Redirecting to login...",
		"redirect": access.LoginPath,
	})
}

// ResetPasswordPage is the view model of the set-new-password form.
// GET /reset-password
func (h *Handlers) ResetPasswordPage(c *gin.Context) {
	token := c.Query("token")
	body := gin.H{
		"page":   "reset-password",
		"token":  token,
		"submit": "/auth/password/reset",
	}
	if token != "" {
		body["message"] = "Ready to reset your password. Please enter a new one below."
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handlers) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cookie.Name, token, int(h.Cookie.TTL.Seconds()), "/", "", h.Cookie.Secure, true)
}

// endSession revokes the request's session, if any, and clears the cookie.
func (h *Handlers) endSession(c *gin.Context) {
	if h.Sessions != nil {
		if claims, err := h.Sessions.Claims(c.Request); err == nil {
			if err := h.Accounts.SignOut(c.Request.Context(), claims); err != nil && h.Log != nil {
				h.Log.Warn("failed to revoke session", zap.Error(err))
			}
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cookie.Name, "", -1, "/", "", h.Cookie.Secure, true)
}
