package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aya-loyalty/aya-api/internal/api/handler/v1/request"
	"github.com/aya-loyalty/aya-api/internal/api/handler/v1/response"
	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/service"
)

type GrandPrixService interface {
	CreateCampaign(ctx context.Context, campaign domain.GrandPrix, prizes []domain.GrandPrixPrize) (domain.GrandPrix, error)
	GetCurrent(ctx context.Context) (service.CampaignDetails, error)
	GetCampaign(ctx context.Context, id uint) (service.CampaignDetails, error)
	Participate(ctx context.Context, userID uint) (domain.GrandPrixParticipation, error)
	ConductDraw(ctx context.Context, grandPrixID, operatorID uint) ([]domain.DrawWinner, domain.GrandPrixDraw, error)
	GetParticipations(ctx context.Context, userID uint) ([]domain.GrandPrixParticipation, error)
	GetParticipants(ctx context.Context, grandPrixID uint) ([]domain.GrandPrixParticipation, error)
}

type GrandPrixHandler struct {
	svc  GrandPrixService
	uSvc UserService
}

func NewGrandPrixHandler(svc GrandPrixService, uSvc UserService) *GrandPrixHandler {
	return &GrandPrixHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateCampaign godoc
// @Summary      Create a grand prix campaign
// @Description  Creates a campaign with its prize list. Operator role required.
// @Tags         grand-prix
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateCampaignRequest true "request body"
// @Success      201      {object}  domain.GrandPrix
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /grand-prix [post]
// @Security BearerAuth
func (h *GrandPrixHandler) HandleCreateCampaign(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if user.Role != domain.RoleOperator {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an operator", user.ID)))

		return
	}

	var req request.CreateCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	campaign := domain.GrandPrix{
		Name:              req.Name,
		Description:       req.Description,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		DrawDate:          req.DrawDate,
		ParticipationCost: req.ParticipationCost,
		Status:            domain.GrandPrixStatus(req.Status),
	}

	prizes := make([]domain.GrandPrixPrize, 0, len(req.Prizes))
	for _, p := range req.Prizes {
		prizes = append(prizes, domain.GrandPrixPrize{
			Position:    p.Position,
			Name:        p.Name,
			Description: p.Description,
			Value:       p.Value,
		})
	}

	created, err := h.svc.CreateCampaign(ctx.Request.Context(), campaign, prizes)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateCampaign -> h.svc.CreateCampaign -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetCurrent godoc
// @Summary      Get the currently active campaign
// @Tags         grand-prix
// @Produce      json
// @Success      200  {object}  response.CampaignResponse
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /grand-prix/current [get]
// @Security BearerAuth
func (h *GrandPrixHandler) HandleGetCurrent(ctx *gin.Context) {
	details, err := h.svc.GetCurrent(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoActiveCampaign) {
			response.RenderErr(ctx, response.ErrNotFound("grand prix", "status", "active"))

			return
		}

		err = fmt.Errorf("v1.HandleGetCurrent -> h.svc.GetCurrent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.CampaignResponse{
		Campaign: details.Campaign,
		Prizes:   details.Prizes,
	})
}

// HandleParticipate godoc
// @Summary      Enter the active campaign
// @Description  Buys the authenticated user one entry in the active campaign, debiting the entry cost.
// @Tags         grand-prix
// @Produce      json
// @Success      201  {object}  response.ParticipateResponse
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /grand-prix/participate [post]
// @Security BearerAuth
func (h *GrandPrixHandler) HandleParticipate(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	participation, err := h.svc.Participate(ctx.Request.Context(), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveCampaign):
			response.RenderErr(ctx, response.ErrNotFound("grand prix", "status", "active"))
		case errors.Is(err, service.ErrAlreadyParticipated):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrInsufficientPoints):
			response.RenderErr(ctx, response.ErrUnprocessable(err))
		default:
			err = fmt.Errorf("v1.HandleParticipate -> h.svc.Participate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, response.ParticipateResponse{
		Message:        "entry registered, good luck",
		GrandPrixID:    participation.GrandPrixID,
		PointsSpent:    participation.PointsSpent,
		ParticipatedAt: participation.ParticipatedAt,
	})
}

// HandleConductDraw godoc
// @Summary      Conduct the draw for a finished campaign
// @Description  Runs the single random draw for a campaign, assigning prizes to winners. Operator role required.
// @Tags         grand-prix
// @Produce      json
// @Param        grandPrixID  path      int  true  "campaign ID"
// @Success      200  {object}  response.DrawResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /grand-prix/{grandPrixID}/draw [post]
// @Security BearerAuth
func (h *GrandPrixHandler) HandleConductDraw(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if user.Role != domain.RoleOperator {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an operator", user.ID)))

		return
	}

	grandPrixID, err := strconv.ParseUint(ctx.Param("grandPrixID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid campaign ID: %w", err)))

		return
	}

	winners, draw, err := h.svc.ConductDraw(ctx.Request.Context(), uint(grandPrixID), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			response.RenderErr(ctx, response.ErrNotFound("grand prix", "grandPrixID", grandPrixID))
		case errors.Is(err, service.ErrCampaignNotFinished):
			response.RenderErr(ctx, response.ErrUnprocessable(err))
		case errors.Is(err, service.ErrDrawAlreadyConducted):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrNoEligibleParticipants), errors.Is(err, service.ErrNoPrizesDefined):
			response.RenderErr(ctx, response.ErrUnprocessable(err))
		default:
			err = fmt.Errorf("v1.HandleConductDraw -> h.svc.ConductDraw -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.DrawResponse{
		Message:     fmt.Sprintf("draw completed with %d winners", len(winners)),
		GrandPrixID: draw.GrandPrixID,
		Seed:        draw.Seed,
		DrawnAt:     draw.DrawnAt,
		Winners:     winners,
	})
}

// HandleGetParticipations godoc
// @Summary      List the authenticated user's campaign entries
// @Tags         grand-prix
// @Produce      json
// @Success      200  {array}   domain.GrandPrixParticipation
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /grand-prix/participations [get]
// @Security BearerAuth
func (h *GrandPrixHandler) HandleGetParticipations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	participations, err := h.svc.GetParticipations(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetParticipations -> h.svc.GetParticipations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, participations)
}

// HandleGetParticipants godoc
// @Summary      List a campaign's participants
// @Description  Lists every entry in a campaign. Operator role required.
// @Tags         grand-prix
// @Produce      json
// @Param        grandPrixID  path      int  true  "campaign ID"
// @Success      200  {array}   domain.GrandPrixParticipation
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /grand-prix/{grandPrixID}/participants [get]
// @Security BearerAuth
func (h *GrandPrixHandler) HandleGetParticipants(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if user.Role != domain.RoleOperator {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an operator", user.ID)))

		return
	}

	grandPrixID, err := strconv.ParseUint(ctx.Param("grandPrixID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid campaign ID: %w", err)))

		return
	}

	participants, err := h.svc.GetParticipants(ctx.Request.Context(), uint(grandPrixID))
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("grand prix", "grandPrixID", grandPrixID))

			return
		}

		err = fmt.Errorf("v1.HandleGetParticipants -> h.svc.GetParticipants -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, participants)
}
