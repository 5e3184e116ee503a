// User account HTTP handlers.
//
//   - POST   /user/signup      (public)
//   - POST   /user/login       (public, returns a signed JWT)
//   - PATCH  /user/updateuser  (authenticated)
//   - DELETE /user/deleteuser  (authenticated)
//   - GET    /user/getusers    (authenticated)
//   - GET    /user/getusername (authenticated)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careermate/go-career-backend/internal/auth"
	"github.com/careermate/go-career-backend/internal/domain"
	"github.com/careermate/go-career-backend/internal/http/middleware"
	"github.com/careermate/go-career-backend/internal/services"
)

// SignupRequest is the JSON payload for registering an account.
type SignupRequest struct {
	Username string `json:"username" binding:"required" example:"asha_user"`
	Email    string `json:"email" binding:"required,email" example:"asha@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"s3cret-pass"`
	MobileNo string `json:"mobileno" example:"+911234567890"`
}

// LoginRequest is the JSON payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"asha@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// LoginResponse carries the signed token and the account it belongs to.
type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// UpdateUserRequest carries a partial profile update; absent fields are left
// untouched.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	MobileNo *string `json:"mobileno"`
	Password *string `json:"password"`
}

// Signup godoc
// @ID          signup
// @Summary     Register a new account
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SignupRequest  true  "Account details"
//
// @Success     201  {object}  map[string]string
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Email already registered"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /user/signup [post]
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username, email and password (min 8 chars) are required")
		return
	}

	if _, err := h.userSvc.Signup(c.Request.Context(), req.Username, req.Email, req.Password, req.MobileNo); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			fail(c, http.StatusConflict, ErrCodeConflict, "email already registered")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusCreated, gin.H{"message": "Sign up done successfully"})
}

// Login godoc
// @ID          login
// @Summary     Log in and receive a JWT
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object}  handlers.LoginResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /user/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	user, err := h.userSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	token, err := auth.SignToken(user.ID, h.auth.JWTSecret, h.auth.JWTTTL)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not sign token")
		return
	}

	ok(c, http.StatusOK, LoginResponse{Token: token, User: *user})
}

// UpdateUser godoc
// @ID          updateUser
// @Summary     Update own profile
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.UpdateUserRequest  true  "Fields to change"
//
// @Success     200  {object}  map[string]string
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /user/updateuser [patch]
func (h *Handlers) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	upd := services.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
		Mobile:   req.MobileNo,
		Password: req.Password,
	}
	if err := h.userSvc.Update(c.Request.Context(), middleware.PrincipalFrom(c), upd); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Update done"})
}

// DeleteUser godoc
// @ID          deleteUser
// @Summary     Delete own account
// @Tags        Users
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
//
// @Success     200  {object}  map[string]string
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /user/deleteuser [delete]
func (h *Handlers) DeleteUser(c *gin.Context) {
	if err := h.userSvc.Delete(c.Request.Context(), middleware.PrincipalFrom(c)); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List registered accounts
// @Tags        Users
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
//
// @Success     200  {array}   domain.User
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /user/getusers [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, users)
}

// GetUsername godoc
// @ID          getUsername
// @Summary     Fetch own username
// @Tags        Users
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
//
// @Success     200  {object}  map[string]string
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /user/getusername [get]
func (h *Handlers) GetUsername(c *gin.Context) {
	user, err := h.userSvc.Get(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, gin.H{"username": user.Username})
}
