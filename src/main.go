package main

import (
	"academy/src/boot"
	"academy/src/common"
	"academy/src/config"
	"academy/src/controllers"
	"academy/src/db"
	"academy/src/lib"
	"academy/src/middlewares"
	"academy/src/models"
	"academy/src/types"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"strconv"
	"time"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/gorm"
)

const (
	apiPrefix string = "/api/v1"
)

var futureDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	today := time.Now()
	log.Printf("%s: ok=%v,v=%v,n=%v", fl.FieldName(), ok, datetime, today)
	if ok {
		if today.After(datetime) {
			return false
		}
	}
	return true
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		atoi, err := strconv.ParseBool(mm)
		if err == nil && atoi {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func publicRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1 = catalogHandlers(apiv1)
	apiv1 = couponHandlers(apiv1)
	apiv1 = paymentPageHandlers(apiv1)
	return apiv1
}

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	guest := apiv1.Group("/auth")
	guest.
		POST("/login", func(ctx *gin.Context) {
			token, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				log.Printf("[AuthLogin] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}

			ctx.JSON(http.StatusOK, gin.H{
				"token": token,
			})
		}).
		POST("/register", func(ctx *gin.Context) {
			uid, status, err := controllers.AuthRegister(ctx)
			if err != nil {
				log.Printf("[AuthRegister] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}

			ctx.JSON(http.StatusOK, gin.H{"id": uid})
		})
	return guest
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()
	boot.InitSettings()
	boot.InitScheduler()
	if err := boot.RecoverPendingExpiries(); err != nil {
		log.Printf("Error recovering queued jobs: %s\n", err.Error())
	}

	go common.UpdateMissingSlugs()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization", "x-callback-token")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			if match {
				return true
			}
			match, _ = regexp.MatchString("app:mobile", origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("futuredate", futureDateValidatorFunc)
	}

	router = maintenanceModeMiddleware(router)

	publicRoutes(router)

	guestAuthRoutes(router)

	paymentWebhookRoute(router)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		authorized = transactionHandlers(authorized)
		authorized = membershipHandlers(authorized)

		authorized.
			GET("/me", func(ctx *gin.Context) {
				var user models.User
				userId := ctx.GetString("id")
				db := db.GetDb()
				if err := db.
					Select("id", "name", "email", "phone", "whatsapp", "role", "is_active", "created_at").
					Where("id = ?", userId).
					First(&user).
					Error; err != nil {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "No user account is associated with this session"})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"data": user})
			}).
			GET("/notifications", func(ctx *gin.Context) {
				userId := ctx.GetString("id")
				var notifications []models.Notification
				db := db.GetDb()
				if err := db.
					Where("user_id = ?", userId).
					Order("created_at desc").
					Limit(50).
					Find(&notifications).
					Error; err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"data": notifications})
			})

		admin := router.Group(apiPrefix + "/admin")
		admin.Use(middlewares.AuthMiddleware, middlewares.AdminMiddleware)
		{
			admin = adminCatalogHandlers(admin)
			admin = adminMembershipHandlers(admin)
			admin = groupHandlers(admin)

			admin.
				POST("/settings", func(ctx *gin.Context) {
					var body types.CreateSettingRequestBody
					err := ctx.ShouldBindJSON(&body)
					if err != nil {
						ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
						return
					}
					db := db.GetDb()
					err = db.Transaction(func(tx *gorm.DB) error {
						setting := models.Setting{
							SettingKey:   body.Key,
							SettingValue: types.JSONBAny{Inner: body.Value},
							Group:        body.Group,
						}
						err := tx.Create(&setting).Error
						if err != nil {
							return err
						}
						return nil
					})
					if err != nil {
						ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
						return
					}
					config.InvalidateSetting(body.Key)
					ctx.Status(http.StatusOK)
				}).
				GET("/settings", func(ctx *gin.Context) {
					var settings []models.Setting
					db := db.GetDb()
					err := db.Find(&settings).Error
					if err != nil {
						ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
						return
					}
					ctx.JSON(http.StatusOK, gin.H{"data": settings})
				})
		}
	}

	if lib.GetRedisClient() == nil {
		log.Println("Redis is not configured. Caching and idempotency checks are disabled")
	}

	defer boot.StopScheduler()

	if os.Getenv("TLS_ENABLE") == "true" {
		cwd, _ := os.Getwd()
		certpath := path.Join(cwd, "certificates", "localhost.pem")
		keypath := path.Join(cwd, "certificates", "localhost-key.pem")
		if err := router.RunTLS(":9090", certpath, keypath); err != nil {
			log.Fatalf("Failed to start server: %s", err)
		}
	}
	if err := router.Run(":9090"); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
