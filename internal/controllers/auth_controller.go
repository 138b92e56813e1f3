package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"commission_tracker/internal/apperr"
	"commission_tracker/internal/middleware"
	"commission_tracker/internal/models"
	"commission_tracker/internal/response"
)

const msgBadLogin = "Invalid username or password"

type AuthController struct {
	users    UserStore
	tokens   TokenMinter
	hashCost int
	// dummyHash is compared against when the username is unknown so both
	// login failures cost one bcrypt comparison.
	dummyHash []byte
}

func NewAuthController(users UserStore, tokens TokenMinter, hashCost int) *AuthController {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), hashCost)
	if err != nil {
		logrus.WithError(err).Warn("could not prepare dummy password hash")
	}
	return &AuthController{users: users, tokens: tokens, hashCost: hashCost, dummyHash: dummy}
}

type registerInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	// Nil when the field is omitted, which registers a driver.
	Role *string `json:"role"`
}

// Login fields are not required so that blank credentials fail the same way
// wrong ones do.
type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a user, seeds its ledger and returns a token.
func (ac *AuthController) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	taken, err := ac.users.Exists(ctx, input.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	if taken {
		response.Error(c, apperr.Conflict("Username already exists"))
		return
	}

	role := models.RoleDriver
	if input.Role != nil {
		role, err = models.ParseRole(*input.Role)
	}
	if err != nil {
		response.Error(c, apperr.New(apperr.KindInvalidArgument,
			"Invalid role. Must be 'driver', 'helper', or 'admin'", err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), ac.hashCost)
	if err != nil {
		response.Error(c, apperr.Internal("could not hash password", err))
		return
	}

	user := models.User{Username: input.Username, Password: string(hash), Role: role}
	if err := ac.users.Create(ctx, &user); err != nil {
		response.Error(c, err)
		return
	}

	token, err := ac.tokens.Issue(user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	c.JSON(http.StatusOK, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    viewOf(user),
	})
}

// Login exchanges credentials for a token. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (ac *AuthController) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	user, err := ac.users.FindByUsername(c.Request.Context(), input.Username)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		response.Error(c, err)
		return
	}
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(ac.dummyHash, []byte(input.Password))
		response.Error(c, apperr.Unauthenticated(msgBadLogin))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		response.Error(c, apperr.Unauthenticated(msgBadLogin))
		return
	}

	token, err := ac.tokens.Issue(user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  viewOf(user),
	})
}

// Me returns the authenticated identity.
func (ac *AuthController) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated("Not authenticated"))
		return
	}
	c.JSON(http.StatusOK, viewOf(user))
}
