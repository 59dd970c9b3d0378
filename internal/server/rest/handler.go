package rest

import (
	"net/http"

	"github.com/dmitrijs2005/promptkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type editUserRequest struct {
	Name string `json:"name"`
}

// bindJSON decodes the cached body into obj. An empty body leaves obj zeroed
// so the service reports the missing fields.
func bindJSON(c *gin.Context, obj any) error {
	body, err := cachedBody(c)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return binding.JSON.BindBody(body, obj)
}

func (s *HTTPServer) signup(c *gin.Context) {
	var req signupRequest
	if err := bindJSON(c, &req); err != nil {
		s.logger.Debug(c.Request.Context(), "bad signup body", "error", err)
		c.JSON(http.StatusBadRequest, errorBody(msgInvalidRequest))
		return
	}

	user, token, err := s.users.Register(c.Request.Context(), services.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	s.metrics.AuthAttempt("signup", outcome(err))
	if err != nil {
		abortWithError(c, err, statusFor(err, http.StatusForbidden, http.StatusNotFound))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User registered successfully",
		"data":    user,
		"token":   token,
	})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		s.logger.Debug(c.Request.Context(), "bad login body", "error", err)
		c.JSON(http.StatusBadRequest, errorBody(msgInvalidRequest))
		return
	}

	user, token, err := s.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	s.metrics.AuthAttempt("login", outcome(err))
	if err != nil {
		abortWithError(c, err, statusFor(err, http.StatusForbidden, http.StatusBadRequest))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged in successfully",
		"user":    user,
		"token":   token,
	})
}

func (s *HTTPServer) getUserDetails(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(msgInternal))
		return
	}

	user, err := s.users.GetDetails(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err, statusFor(err, http.StatusBadRequest, http.StatusNotFound))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User details fetched successfully",
		"data":    user,
	})
}

func (s *HTTPServer) editUser(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(msgInternal))
		return
	}

	var req editUserRequest
	if err := bindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(msgInvalidRequest))
		return
	}

	user, err := s.users.EditName(c.Request.Context(), id, req.Name)
	s.metrics.AuthAttempt("edit_user", outcome(err))
	if err != nil {
		abortWithError(c, err, statusFor(err, http.StatusBadRequest, http.StatusNotFound))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User details updated successfully",
		"user":    user,
	})
}
