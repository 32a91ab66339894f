package routes

import (
	"net/http"
	"strings"
	"time"

	"snapgram/config"
	"snapgram/handlers"
	"snapgram/middleware"
	"snapgram/service"
	"snapgram/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Config        *config.Config
	Auth          *service.AuthService
	Users         *service.UserService
	Posts         *service.PostService
	Comments      *service.CommentService
	Images        *service.ImageService
	Notifications *service.NotificationService
	Hub           *websocket.Hub
	// RateLimit guards the credential endpoints.
	RateLimit gin.HandlerFunc
	// ServeUploads exposes the local upload directory under Upload.URLPrefix.
	ServeUploads bool
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	router := gin.Default()

	origins := cfg.CORS.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
			"ws":     deps.Hub.ConnectedClients(),
		})
	})

	rateLimit := deps.RateLimit
	if rateLimit == nil {
		rateLimit = func(c *gin.Context) { c.Next() }
	}
	jwtAuth := middleware.JWTAuth(deps.Auth)
	uploadLimit := middleware.UploadBodyLimit(cfg.Upload.MaxSizeMB)

	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Users)
	profileHandler := handlers.NewProfileHandler(deps.Users, deps.Posts)
	imageHandler := handlers.NewImageHandler(deps.Images, cfg.Upload.MaxFiles)
	postHandler := handlers.NewPostHandler(deps.Posts)
	commentHandler := handlers.NewCommentHandler(deps.Comments)
	pushHandler := handlers.NewPushHandler(deps.Notifications)

	// Public
	router.POST("/user/login", rateLimit, middleware.LocalAuthGuard(deps.Auth), authHandler.Login)
	router.GET("/user/checktoken", authHandler.CheckToken)
	router.POST("/user", rateLimit, authHandler.Signup)
	router.GET("/push/vapid-public-key", pushHandler.GetVapidPublicKey)
	router.GET("/ws", gin.WrapF(websocket.ServeWS(deps.Hub, deps.Auth, cfg.CORS.AllowOrigins)))

	if deps.ServeUploads {
		router.Static(strings.TrimRight(cfg.Upload.URLPrefix, "/"), cfg.Upload.Path)
	}

	protected := router.Group("/")
	protected.Use(jwtAuth)

	protected.GET("/user/myinfo", authHandler.MyInfo)

	protected.GET("/profile/:accountname", profileHandler.GetProfile)
	protected.POST("/profile/:accountname/follow", profileHandler.Follow)
	protected.DELETE("/profile/:accountname/unfollow", profileHandler.Unfollow)
	protected.GET("/profile/:accountname/posts", profileHandler.ListPosts)

	protected.POST("/image/uploadfile", uploadLimit, imageHandler.UploadFile)
	protected.POST("/image/uploadfiles", uploadLimit, imageHandler.UploadFiles)
	protected.DELETE("/image", imageHandler.DeleteImage)

	protected.POST("/post", postHandler.CreatePost)
	protected.GET("/post/feed", postHandler.Feed)
	protected.GET("/post/:postId", postHandler.GetPost)
	protected.DELETE("/post/:postId", postHandler.DeletePost)

	protected.POST("/post/:postId/comments", commentHandler.CreateComment)
	protected.GET("/post/:postId/comments", commentHandler.GetCommentList)
	protected.DELETE("/post/:postId/comments/:commentId", commentHandler.DeleteComment)
	protected.POST("/post/:postId/comments/:commentId/report", commentHandler.ReportComment)

	protected.POST("/push/subscribe", pushHandler.Subscribe)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "endpoint not found",
			"path":  c.Request.URL.Path,
		})
	})

	return router
}
