package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rollbook/internal/roster"
)

// ListBatches handles GET /api/batches.
func (h *Handler) ListBatches(c *gin.Context) {
	batches, err := h.roster.ListBatches(c.Request.Context())
	if err != nil {
		log.Printf("list batches failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch batches"})
		return
	}
	if batches == nil {
		batches = []roster.Batch{}
	}
	c.JSON(http.StatusOK, batches)
}

// CreateBatch handles POST /api/batches.
func (h *Handler) CreateBatch(c *gin.Context) {
	var req struct {
		Year int    `json:"year" binding:"required"`
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	batch, err := h.roster.CreateBatch(c.Request.Context(), roster.Batch{Year: req.Year, Name: req.Name})
	if err != nil {
		log.Printf("create batch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create batch"})
		return
	}
	c.JSON(http.StatusCreated, batch)
}

// ListSemesters handles GET /api/semesters.
func (h *Handler) ListSemesters(c *gin.Context) {
	semesters, err := h.roster.ListSemesters(c.Request.Context())
	if err != nil {
		log.Printf("list semesters failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch semesters"})
		return
	}
	if semesters == nil {
		semesters = []roster.Semester{}
	}
	c.JSON(http.StatusOK, semesters)
}

// CreateSemester handles POST /api/semesters.
func (h *Handler) CreateSemester(c *gin.Context) {
	var req struct {
		Number int    `json:"number" binding:"required"`
		Name   string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	semester, err := h.roster.CreateSemester(c.Request.Context(), roster.Semester{Number: req.Number, Name: req.Name})
	if err != nil {
		log.Printf("create semester failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create semester"})
		return
	}
	c.JSON(http.StatusCreated, semester)
}

// ListSubjects handles GET /api/subjects.
func (h *Handler) ListSubjects(c *gin.Context) {
	subjects, err := h.roster.ListSubjects(c.Request.Context())
	if err != nil {
		log.Printf("list subjects failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subjects"})
		return
	}
	if subjects == nil {
		subjects = []roster.Subject{}
	}
	c.JSON(http.StatusOK, subjects)
}

// ListSubjectsBySemester handles GET /api/subjects/:semesterId.
func (h *Handler) ListSubjectsBySemester(c *gin.Context) {
	subjects, err := h.roster.ListSubjectsBySemester(c.Request.Context(), c.Param("semesterId"))
	if err != nil {
		log.Printf("list subjects failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subjects"})
		return
	}
	if subjects == nil {
		subjects = []roster.Subject{}
	}
	c.JSON(http.StatusOK, subjects)
}

// CreateSubject handles POST /api/subjects.
func (h *Handler) CreateSubject(c *gin.Context) {
	var req struct {
		Name       string `json:"name" binding:"required"`
		Code       string `json:"code" binding:"required"`
		SemesterID string `json:"semesterId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	subject, err := h.roster.CreateSubject(c.Request.Context(), roster.Subject{
		Name:       req.Name,
		Code:       req.Code,
		SemesterID: req.SemesterID,
	})
	if err != nil {
		log.Printf("create subject failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subject"})
		return
	}
	c.JSON(http.StatusCreated, subject)
}

// ListStudents handles GET /api/students/:batchId/:semesterId.
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.roster.ListStudentsByBatchAndSemester(c.Request.Context(), c.Param("batchId"), c.Param("semesterId"))
	if err != nil {
		log.Printf("list students failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch students"})
		return
	}
	if students == nil {
		students = []roster.StudentRow{}
	}
	c.JSON(http.StatusOK, students)
}
