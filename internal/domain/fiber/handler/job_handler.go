package handler

import (
	"github.com/fadilmartias/job-matcher/internal/apperror"
	"github.com/fadilmartias/job-matcher/internal/usecase"
	"github.com/fadilmartias/job-matcher/internal/util"
	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	uc *usecase.JobUsecase
}

func NewJobHandler(uc *usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.Health)
	app.Get("/reload-jobs", h.Reload)
	app.Get("/jobs-stats", h.Stats)
	app.Get("/jobs", h.Jobs)
	app.Get("/get-job/:id", h.Job)
}

// Health always answers 200; the body says whether the service is usable.
func (h *JobHandler) Health(c *fiber.Ctx) error {
	status := h.uc.Health(c.UserContext())
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Job matcher service is " + status.Status,
		Data:    status,
	})
}

func (h *JobHandler) Reload(c *fiber.Ctx) error {
	res, err := h.uc.Reload(c.UserContext(), c.QueryBool("refresh", false))
	if err != nil {
		message := "failed to reload jobs"
		if apperror.IsDataSource(err) {
			message = "job source unavailable"
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: message,
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Jobs reloaded successfully",
		Data:    res,
	})
}

func (h *JobHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats()
	if err != nil {
		return util.ErrorFrom(c, err, "failed to get job stats")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job stats",
		Data:    stats,
	})
}

func (h *JobHandler) Jobs(c *fiber.Ctx) error {
	jobs, err := h.uc.JobsByIDs(c.Query("ids"))
	if err != nil {
		return util.ErrorFrom(c, err, "failed to get jobs")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get jobs",
		Data:    jobs,
	})
}

func (h *JobHandler) Job(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "job id must be an integer",
		}, err)
	}
	job, err := h.uc.Job(int64(id))
	if err != nil {
		return util.ErrorFrom(c, err, "failed to get job")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job",
		Data:    job,
	})
}
