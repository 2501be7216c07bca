package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/aya-loyalty/aya-api/docs"
	v1 "github.com/aya-loyalty/aya-api/internal/api/handler/v1"
	"github.com/aya-loyalty/aya-api/internal/api/middleware"
	"github.com/aya-loyalty/aya-api/internal/config"
	"github.com/aya-loyalty/aya-api/internal/repository"
	"github.com/aya-loyalty/aya-api/internal/repository/dao"
	"github.com/aya-loyalty/aya-api/internal/service"
)

type Server struct {
	Config   *config.AppConfig
	Router   *gin.Engine
	Exchange *service.ExchangeService
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	qrCodeHandler := s.initQRCodeHandler(db)
	exchangeHandler := s.initExchangeHandler(db)
	grandPrixHandler := s.initGrandPrixHandler(db)
	s.MountHandlers(authHandler, userHandler, qrCodeHandler, exchangeHandler, grandPrixHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserService(db *gorm.DB) *service.UserService {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	grandPrixRepo := repository.NewGrandPrixRepository(dao.NewGrandPrixDAO(db))

	return service.NewUserService(userRepo, grandPrixRepo)
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	handler := v1.NewUserHandler(s.initUserService(db))

	return handler
}

func (s *Server) initQRCodeHandler(db *gorm.DB) *v1.QRCodeHandler {
	qrCodeDAO := dao.NewQRCodeDAO(db)
	repo := repository.NewQRCodeRepository(qrCodeDAO)
	svc := service.NewQRCodeService(repo)
	handler := v1.NewQRCodeHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) initExchangeHandler(db *gorm.DB) *v1.ExchangeHandler {
	tokenDAO := dao.NewExchangeTokenDAO(db)
	repo := repository.NewExchangeTokenRepository(tokenDAO)
	svc := service.NewExchangeService(repo)
	handler := v1.NewExchangeHandler(svc, s.initUserService(db))

	// The sweeper worker reuses the same service.
	s.Exchange = svc

	return handler
}

func (s *Server) initGrandPrixHandler(db *gorm.DB) *v1.GrandPrixHandler {
	grandPrixDAO := dao.NewGrandPrixDAO(db)
	repo := repository.NewGrandPrixRepository(grandPrixDAO)
	svc := service.NewGrandPrixService(repo)
	handler := v1.NewGrandPrixHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	qrCodeHandler *v1.QRCodeHandler,
	exchangeHandler *v1.ExchangeHandler,
	grandPrixHandler *v1.GrandPrixHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/users/me", userHandler.HandleGetMe)
		authenticated.GET("/users/me/stats", userHandler.HandleGetStats)

		authenticated.POST("/qr-codes", qrCodeHandler.HandleCreateCode)
		authenticated.POST("/qr-codes/batch", qrCodeHandler.HandleCreateBatch)
		authenticated.POST("/qr-codes/claim", qrCodeHandler.HandleClaim)
		authenticated.GET("/qr-codes/scans", qrCodeHandler.HandleGetScans)

		authenticated.POST("/exchange/tokens", exchangeHandler.HandleCreateToken)
		authenticated.GET("/exchange/tokens", exchangeHandler.HandleGetTokens)
		authenticated.POST("/exchange/redeem", exchangeHandler.HandleRedeemToken)
		authenticated.GET("/exchange/redemptions", exchangeHandler.HandleGetRedemptions)
		authenticated.POST("/exchange/sweep", exchangeHandler.HandleSweepTokens)

		authenticated.POST("/grand-prix", grandPrixHandler.HandleCreateCampaign)
		authenticated.GET("/grand-prix/current", grandPrixHandler.HandleGetCurrent)
		authenticated.POST("/grand-prix/participate", grandPrixHandler.HandleParticipate)
		authenticated.GET("/grand-prix/participations", grandPrixHandler.HandleGetParticipations)
		authenticated.GET("/grand-prix/:grandPrixID/participants", grandPrixHandler.HandleGetParticipants)
		authenticated.POST("/grand-prix/:grandPrixID/draw", grandPrixHandler.HandleConductDraw)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Aya Loyalty API"
	docs.SwaggerInfo.Description = "QR-code loyalty rewards platform."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
