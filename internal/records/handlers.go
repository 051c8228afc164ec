package records

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifeos/agent-api/internal/errors"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes mounts the records endpoints on an API group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/meal-plans", h.CreateMealPlan)
	api.GET("/meal-plans", h.ListMealPlans)
	api.POST("/tasks", h.CreateTask)
	api.GET("/tasks", h.ListTasks)
	api.POST("/study-sessions", h.CreateStudySession)
	api.GET("/study-sessions", h.ListStudySessions)
	api.POST("/wellness-activities", h.CreateWellnessActivity)
	api.GET("/wellness-activities", h.ListWellnessActivities)
}

// CreateMealPlan handles POST /api/v1/meal-plans.
func (h *Handler) CreateMealPlan(c *gin.Context) {
	var req CreateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.AbortWithBadRequest(c, "invalid request body", nil)
		return
	}
	if errs := req.validate(); !errs.empty() {
		errors.Unprocessable(c, errs)
		return
	}

	plan, err := h.service.CreateMealPlan(c.Request.Context(), &req)
	if err != nil {
		errors.AbortWithInternal(c, "failed to create meal plan", nil)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// ListMealPlans handles GET /api/v1/meal-plans.
func (h *Handler) ListMealPlans(c *gin.Context) {
	plans, err := h.service.ListMealPlans(c.Request.Context())
	if err != nil {
		errors.AbortWithInternal(c, "failed to list meal plans", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal_plans": plans})
}

// CreateTask handles POST /api/v1/tasks.
func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.AbortWithBadRequest(c, "invalid request body", nil)
		return
	}
	if errs := req.validate(); !errs.empty() {
		errors.Unprocessable(c, errs)
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), &req)
	if err != nil {
		errors.AbortWithInternal(c, "failed to create task", nil)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// ListTasks handles GET /api/v1/tasks.
func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.service.ListTasks(c.Request.Context())
	if err != nil {
		errors.AbortWithInternal(c, "failed to list tasks", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CreateStudySession handles POST /api/v1/study-sessions.
func (h *Handler) CreateStudySession(c *gin.Context) {
	var req CreateStudySessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.AbortWithBadRequest(c, "invalid request body", nil)
		return
	}
	if errs := req.validate(); !errs.empty() {
		errors.Unprocessable(c, errs)
		return
	}

	session, err := h.service.CreateStudySession(c.Request.Context(), &req)
	if err != nil {
		errors.AbortWithInternal(c, "failed to create study session", nil)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// ListStudySessions handles GET /api/v1/study-sessions.
func (h *Handler) ListStudySessions(c *gin.Context) {
	sessions, err := h.service.ListStudySessions(c.Request.Context())
	if err != nil {
		errors.AbortWithInternal(c, "failed to list study sessions", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"study_sessions": sessions})
}

// CreateWellnessActivity handles POST /api/v1/wellness-activities.
func (h *Handler) CreateWellnessActivity(c *gin.Context) {
	var req CreateWellnessActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.AbortWithBadRequest(c, "invalid request body", nil)
		return
	}
	if errs := req.validate(); !errs.empty() {
		errors.Unprocessable(c, errs)
		return
	}

	activity, err := h.service.CreateWellnessActivity(c.Request.Context(), &req)
	if err != nil {
		errors.AbortWithInternal(c, "failed to create wellness activity", nil)
		return
	}
	c.JSON(http.StatusCreated, activity)
}

// ListWellnessActivities handles GET /api/v1/wellness-activities.
func (h *Handler) ListWellnessActivities(c *gin.Context) {
	activities, err := h.service.ListWellnessActivities(c.Request.Context())
	if err != nil {
		errors.AbortWithInternal(c, "failed to list wellness activities", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wellness_activities": activities})
}
