package handler

import (
	"time"

	"github.com/fadilmartias/job-matcher/internal/dto"
	"github.com/fadilmartias/job-matcher/internal/middleware"
	"github.com/fadilmartias/job-matcher/internal/usecase"
	"github.com/fadilmartias/job-matcher/internal/util"
	"github.com/gofiber/fiber/v2"
)

type MatchHandler struct {
	uc *usecase.MatchUsecase
}

func NewMatchHandler(uc *usecase.MatchUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(app fiber.Router) {
	app.Post("/match-jobs", middleware.RateLimiter(20, 1*time.Minute), h.Match)
}

func (h *MatchHandler) Match(c *fiber.Ctx) error {
	var req dto.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	results, err := h.uc.Match(c.UserContext(), req)
	if err != nil {
		return util.ErrorFrom(c, err, "failed to match jobs")
	}

	message := "Success match jobs"
	if len(results) == 0 {
		message = "No jobs matched the given filters"
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: message,
		Data:    results,
		Meta:    fiber.Map{"count": len(results)},
	})
}
