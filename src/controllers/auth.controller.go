package controllers

import (
	"academy/src/db"
	"academy/src/models"
	"academy/src/types"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func GenerateJWT(user *models.User) (string, error) {
	claims := types.Claims{
		Name:  user.Name,
		Role:  user.Role,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func AuthRegister(ctx *gin.Context) (userID *string, status int, err error) {
	var body types.RegisterRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	var newUser models.User
	gdb := db.GetDb()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.User{}).
			Where("email = ?", body.Email).
			Count(&count).
			Error; err != nil {
			return errors.New("could not complete transaction")
		}
		if count > 0 {
			err := errors.New("user is already registered in the system. Please proceed to Log In")
			log.Printf("error: %s\n", err.Error())
			return err
		}

		newUser = models.User{
			Name:     body.Name,
			Email:    body.Email,
			Password: string(hashed),
			Phone:    body.Phone,
			Whatsapp: body.Whatsapp,
			Role:     types.ROLE_MEMBER_FREE,
			IsActive: true,
		}
		if err := tx.Create(&newUser).Error; err != nil {
			log.Printf("Error creating user: %s\n", err.Error())
			return errors.New("error creating user")
		}
		return nil
	})
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	id := newUser.ID.String()
	return &id, http.StatusOK, nil
}

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	gdb := db.GetDb()
	var user models.User
	if err = gdb.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email}).
		First(&user).
		Error; err != nil {
		log.Printf("error: %s\n", err.Error())
		return nil, http.StatusUnauthorized, errors.New("invalid credentials")
	}
	if !user.IsActive {
		return nil, http.StatusUnauthorized, errors.New("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		return nil, http.StatusUnauthorized, errors.New("invalid credentials")
	}

	jwtToken, err := GenerateJWT(&user)
	if err != nil {
		log.Printf("Error signing token for user [%s]: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	return &jwtToken, http.StatusOK, nil
}
