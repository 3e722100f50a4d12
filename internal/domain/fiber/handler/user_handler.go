package handler

import (
	"github.com/fadilmartias/job-matcher/internal/dto"
	"github.com/fadilmartias/job-matcher/internal/usecase"
	"github.com/fadilmartias/job-matcher/internal/util"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(app fiber.Router) {
	app.Post("/save-preferences", h.SavePreferences)
	app.Get("/get-preferences/:user_id", h.Preferences)
	app.Get("/get-profile/:user_id", h.Profile)
	app.Post("/apply-job", h.Apply)
	app.Get("/user-applications/:user_id", h.Applications)
	app.Get("/dashboard-stats/:user_id", h.Dashboard)
	app.Get("/recent-activity/:user_id", h.RecentActivity)
	app.Get("/service-usage/:user_id", h.ServiceUsage)
}

func (h *UserHandler) SavePreferences(c *fiber.Ctx) error {
	var req dto.PreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	if err := h.uc.SavePreferences(c.UserContext(), req); err != nil {
		return util.ErrorFrom(c, err, "failed to save preferences")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Preferences saved successfully",
		Data:    fiber.Map{"user_id": req.UserID},
	})
}

func (h *UserHandler) Preferences(c *fiber.Ctx) error {
	prefs, err := h.uc.Preferences(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return util.ErrorFrom(c, err, "failed to get preferences")
	}
	var data any = fiber.Map{}
	if prefs != nil {
		data = prefs
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get preferences",
		Data:    data,
	})
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	p, err := h.uc.Profile(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return util.ErrorFrom(c, err, "failed to get profile")
	}
	var data any = fiber.Map{}
	if p != nil {
		data = p
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get profile",
		Data:    data,
	})
}

// Apply accepts the application either as a JSON body or as query parameters.
func (h *UserHandler) Apply(c *fiber.Ctx) error {
	var req dto.ApplyRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: "invalid request body",
			}, err)
		}
	} else if err := c.QueryParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid query parameters",
		}, err)
	}

	if err := h.uc.Apply(c.UserContext(), req); err != nil {
		return util.ErrorFrom(c, err, "failed to apply for job")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Application submitted successfully",
		Data:    fiber.Map{"user_id": req.UserID, "job_id": req.JobID},
	})
}

func (h *UserHandler) Applications(c *fiber.Ctx) error {
	rows, pg, err := h.uc.Applications(c.UserContext(), c.Params("user_id"),
		c.QueryInt("page", 0), c.QueryInt("page_size", 10))
	if err != nil {
		return util.ErrorFrom(c, err, "failed to get applications")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get applications",
		Data:       rows,
		Pagination: pg,
	})
}

func (h *UserHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.uc.Dashboard(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return util.ErrorFrom(c, err, "failed to get dashboard stats")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get dashboard stats",
		Data:    stats,
	})
}

func (h *UserHandler) RecentActivity(c *fiber.Ctx) error {
	activities, err := h.uc.RecentActivity(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return util.ErrorFrom(c, err, "failed to get recent activity")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get recent activity",
		Data:    activities,
	})
}

func (h *UserHandler) ServiceUsage(c *fiber.Ctx) error {
	usage, err := h.uc.ServiceUsage(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return util.ErrorFrom(c, err, "failed to get service usage")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get service usage",
		Data:    usage,
	})
}
