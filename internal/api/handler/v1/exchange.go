package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aya-loyalty/aya-api/internal/api/handler/v1/request"
	"github.com/aya-loyalty/aya-api/internal/api/handler/v1/response"
	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/service"
)

type ExchangeService interface {
	CreateToken(ctx context.Context, userID uint, points int) (domain.ExchangeToken, error)
	RedeemToken(ctx context.Context, token string, redeemerID uint) (domain.Redemption, error)
	SweepExpiredTokens(ctx context.Context) (domain.SweepReport, error)
	GetTokens(ctx context.Context, userID uint) ([]domain.ExchangeToken, error)
	GetRedemptions(ctx context.Context, userID uint) ([]domain.Redemption, error)
}

type ExchangeHandler struct {
	svc  ExchangeService
	uSvc UserService
}

func NewExchangeHandler(svc ExchangeService, uSvc UserService) *ExchangeHandler {
	return &ExchangeHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateToken godoc
// @Summary      Create an exchange token
// @Description  Escrows points from the authenticated user into a short-lived redemption token.
// @Tags         exchange
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateTokenRequest true "request body"
// @Success      201      {object}  response.TokenResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /exchange/tokens [post]
// @Security BearerAuth
func (h *ExchangeHandler) HandleCreateToken(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CreateTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	token, err := h.svc.CreateToken(ctx.Request.Context(), user.ID, req.Points)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientPoints) {
			response.RenderErr(ctx, response.ErrUnprocessable(err))

			return
		}

		err = fmt.Errorf("v1.HandleCreateToken -> h.svc.CreateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, response.TokenResponse{
		Token:     token.Token,
		Points:    token.Points,
		ExpiresAt: token.ExpiresAt,
		ExpiresIn: int(time.Until(token.ExpiresAt).Seconds()),
	})
}

// HandleRedeemToken godoc
// @Summary      Redeem an exchange token
// @Description  Completes a pending exchange token at a vendor terminal. Vendor or operator role required.
// @Tags         exchange
// @Accept       json
// @Produce      json
// @Param        request  body      request.RedeemTokenRequest true "request body"
// @Success      200      {object}  response.RedeemResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      410      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /exchange/redeem [post]
// @Security BearerAuth
func (h *ExchangeHandler) HandleRedeemToken(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if user.Role != domain.RoleVendor && user.Role != domain.RoleOperator {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not a vendor", user.ID)))

		return
	}

	var req request.RedeemTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	redemption, err := h.svc.RedeemToken(ctx.Request.Context(), req.Token, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenNotFound):
			response.RenderErr(ctx, response.ErrNotFound("exchange token", "token", req.Token))
		case errors.Is(err, service.ErrTokenExpired):
			response.RenderErr(ctx, response.ErrGone(err))
		case errors.Is(err, service.ErrTokenAlreadyUsed):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleRedeemToken -> h.svc.RedeemToken -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.RedeemResponse{
		Message:    fmt.Sprintf("redeemed %d points", redemption.Points),
		Points:     redemption.Points,
		UserID:     redemption.UserID,
		RedeemedAt: redemption.RedeemedAt,
	})
}

// HandleSweepTokens godoc
// @Summary      Reclaim expired exchange tokens
// @Description  Restores escrowed points for every expired, unredeemed token. Operator role required. Runs on a schedule as well; this endpoint triggers an immediate pass.
// @Tags         exchange
// @Produce      json
// @Success      200  {object}  response.SweepResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /exchange/sweep [post]
// @Security BearerAuth
func (h *ExchangeHandler) HandleSweepTokens(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if user.Role != domain.RoleOperator {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an operator", user.ID)))

		return
	}

	report, err := h.svc.SweepExpiredTokens(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleSweepTokens -> h.svc.SweepExpiredTokens -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NewSweepResponse(report))
}

// HandleGetTokens godoc
// @Summary      List the authenticated user's exchange tokens
// @Tags         exchange
// @Produce      json
// @Success      200  {array}   domain.ExchangeToken
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /exchange/tokens [get]
// @Security BearerAuth
func (h *ExchangeHandler) HandleGetTokens(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	tokens, err := h.svc.GetTokens(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetTokens -> h.svc.GetTokens -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, tokens)
}

// HandleGetRedemptions godoc
// @Summary      List the authenticated user's redemptions
// @Tags         exchange
// @Produce      json
// @Success      200  {array}   domain.Redemption
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /exchange/redemptions [get]
// @Security BearerAuth
func (h *ExchangeHandler) HandleGetRedemptions(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	redemptions, err := h.svc.GetRedemptions(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetRedemptions -> h.svc.GetRedemptions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, redemptions)
}
