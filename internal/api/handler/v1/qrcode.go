package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aya-loyalty/aya-api/internal/api/handler/v1/request"
	"github.com/aya-loyalty/aya-api/internal/api/handler/v1/response"
	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/service"
)

type QRCodeService interface {
	Claim(ctx context.Context, userID uint, code string) (domain.UserQRCode, domain.ClaimReward, error)
	CreateCode(ctx context.Context, code domain.QRCode) (domain.QRCode, error)
	CreateBatch(ctx context.Context, template domain.QRCode, batchNumber string, count int) ([]domain.QRCode, error)
	GetScans(ctx context.Context, userID uint) ([]domain.UserQRCode, error)
}

type QRCodeHandler struct {
	svc  QRCodeService
	uSvc UserService
}

func NewQRCodeHandler(svc QRCodeService, uSvc UserService) *QRCodeHandler {
	return &QRCodeHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleClaim godoc
// @Summary      Claim a QR code
// @Description  Claims a single-use QR code for the authenticated user and grants its prize.
// @Tags         qr-codes
// @Accept       json
// @Produce      json
// @Param        request  body      request.ClaimCodeRequest true "request body"
// @Success      200      {object}  response.ClaimResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /qr-codes/claim [post]
// @Security BearerAuth
func (h *QRCodeHandler) HandleClaim(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.ClaimCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	claim, reward, err := h.svc.Claim(ctx.Request.Context(), user.ID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeNotFound):
			response.RenderErr(ctx, response.ErrNotFound("qr code", "code", req.Code))
		case errors.Is(err, service.ErrCodeAlreadyClaimed):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrCodeInvalid):
			response.RenderErr(ctx, response.ErrUnprocessable(err))
		default:
			err = fmt.Errorf("v1.HandleClaim -> h.svc.Claim -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.ClaimResponse{
		Message:      claimMessage(reward),
		Reward:       reward.Kind,
		PointsEarned: reward.Points,
		Code:         claim.Code,
	})
}

func claimMessage(reward domain.ClaimReward) string {
	switch reward.Kind {
	case domain.PrizePoints:
		return fmt.Sprintf("congratulations, you earned %d points", reward.Points)
	case domain.PrizeTryAgain:
		return "better luck next time"
	case domain.PrizeLoyaltyBonus:
		return "you won a loyalty bonus"
	case domain.PrizeMysteryBox:
		return "you won a mystery box"
	default:
		return "code claimed"
	}
}

// HandleCreateCode godoc
// @Summary      Create a QR code
// @Description  Creates a single QR code. Operator role required.
// @Tags         qr-codes
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateCodeRequest true "request body"
// @Success      201      {object}  domain.QRCode
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /qr-codes [post]
// @Security BearerAuth
func (h *QRCodeHandler) HandleCreateCode(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if user.Role != domain.RoleOperator {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an operator", user.ID)))

		return
	}

	var req request.CreateCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	created, err := h.svc.CreateCode(ctx.Request.Context(), domain.QRCode{
		Code:      req.Code,
		Points:    req.Points,
		PrizeKind: domain.PrizeKind(req.PrizeType),
		ExpiresAt: req.ExpiresAt,
		CreatedBy: user.ID,
	})
	if err != nil {
		if errors.Is(err, service.ErrCodeExists) {
			response.RenderErr(ctx, response.ErrConflict(err))

			return
		}

		err = fmt.Errorf("v1.HandleCreateCode -> h.svc.CreateCode -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleCreateBatch godoc
// @Summary      Create a batch of QR codes
// @Description  Generates a numbered batch of QR codes from a shared template. Operator role required.
// @Tags         qr-codes
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateBatchRequest true "request body"
// @Success      201      {object}  response.BatchCreateResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /qr-codes/batch [post]
// @Security BearerAuth
func (h *QRCodeHandler) HandleCreateBatch(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if user.Role != domain.RoleOperator {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an operator", user.ID)))

		return
	}

	var req request.CreateBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	template := domain.QRCode{
		Points:    req.Points,
		PrizeKind: domain.PrizeKind(req.PrizeType),
		ExpiresAt: req.ExpiresAt,
		CreatedBy: user.ID,
	}

	codes, err := h.svc.CreateBatch(ctx.Request.Context(), template, req.BatchNumber, req.Count)
	if err != nil {
		if errors.Is(err, service.ErrCodeExists) {
			response.RenderErr(ctx, response.ErrConflict(err))

			return
		}

		err = fmt.Errorf("v1.HandleCreateBatch -> h.svc.CreateBatch -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, response.BatchCreateResponse{
		Message:     fmt.Sprintf("created %d codes in batch %v", len(codes), req.BatchNumber),
		BatchNumber: req.BatchNumber,
		Count:       len(codes),
		Codes:       codes,
	})
}

// HandleGetScans godoc
// @Summary      List the authenticated user's claims
// @Tags         qr-codes
// @Produce      json
// @Success      200  {array}   domain.UserQRCode
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /qr-codes/scans [get]
// @Security BearerAuth
func (h *QRCodeHandler) HandleGetScans(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	scans, err := h.svc.GetScans(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetScans -> h.svc.GetScans -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, scans)
}
