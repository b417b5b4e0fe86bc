package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rollbook/internal/auth"
	"rollbook/internal/roster"
)

type signupRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Role       string `json:"role" binding:"required,oneof=teacher student"`
	RollNo     string `json:"rollNo"`
	EmployeeID string `json:"employeeId"`
	BatchID    string `json:"batchId"`
	SemesterID string `json:"semesterId"`
}

// Signup creates a user account plus its role profile: students need roll
// number, batch, and semester; teachers need an employee id.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Role {
	case auth.RoleStudent:
		if req.RollNo == "" || req.BatchID == "" || req.SemesterID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "student signup requires rollNo, batchId, and semesterId"})
			return
		}
	case auth.RoleTeacher:
		if req.EmployeeID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "teacher signup requires employeeId"})
			return
		}
	}

	ctx := c.Request.Context()
	if existing, err := h.roster.GetUserByEmail(ctx, req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	} else if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.BcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}

	user, err := h.roster.CreateUser(ctx, roster.User{
		Email:    req.Email,
		Password: hash,
		Role:     req.Role,
		Name:     req.Name,
	})
	if err != nil {
		log.Printf("create user failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}

	resp := gin.H{"user": user}
	switch req.Role {
	case auth.RoleStudent:
		student, err := h.roster.CreateStudent(ctx, roster.Student{
			UserID:     user.ID,
			RollNo:     req.RollNo,
			BatchID:    req.BatchID,
			SemesterID: req.SemesterID,
		})
		if err != nil {
			log.Printf("create student failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
			return
		}
		resp["student"] = student
	case auth.RoleTeacher:
		teacher, err := h.roster.CreateTeacher(ctx, roster.Teacher{
			UserID:     user.ID,
			EmployeeID: req.EmployeeID,
		})
		if err != nil {
			log.Printf("create teacher failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
			return
		}
		resp["teacher"] = teacher
	}
	c.JSON(http.StatusCreated, resp)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=teacher student"`
}

// Login verifies credentials and returns a token pair plus the role profile.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := h.roster.GetUserByEmail(ctx, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if user == nil || user.Role != req.Role || !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	tokens, err := auth.Issue(user.ID, user.Role, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}

	resp := gin.H{
		"user":          user,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
	}
	switch user.Role {
	case auth.RoleStudent:
		student, err := h.roster.GetStudentByUserID(ctx, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		resp["student"] = student
	case auth.RoleTeacher:
		teacher, err := h.roster.GetTeacherByUserID(ctx, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		resp["teacher"] = teacher
	}
	c.JSON(http.StatusOK, resp)
}
