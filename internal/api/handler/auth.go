package handler

import (
	"net/http"
	"strings"
	"time"

	"complaintflow/backend/internal/config"
	"complaintflow/backend/internal/models"

	"github.com/gin-gonic/gin"

	jwt "github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

type tokenRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	Role         string `json:"role" binding:"required"`
	DepartmentID string `json:"department_id"`
}

// IssueToken mints an actor JWT. This is the integration point for the
// external identity provider; its claims are trusted verbatim.
func (h *Handler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and role are required"})
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := jwt.MapClaims{
		"sub":           req.UserID,
		"role":          string(role),
		"department_id": req.DepartmentID,
		"exp":           time.Now().Add(config.TokenTTL).Unix(),
		"iss":           "complaintflow-service",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed})
}

// ActorAuth parses the bearer token into the request-scoped Actor value.
// Every authenticated handler reads the actor from the context; nothing
// downstream consults ambient session state.
func (h *Handler) ActorAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		actor, err := h.parseActor(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

func (h *Handler) parseActor(tokenString string) (models.Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return h.JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Actor{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Actor{}, jwt.ErrTokenInvalidClaims
	}

	sub, _ := claims["sub"].(string)
	roleStr, _ := claims["role"].(string)
	dept, _ := claims["department_id"].(string)

	role, err := models.ParseRole(roleStr)
	if err != nil {
		return models.Actor{}, err
	}
	if sub == "" {
		return models.Actor{}, jwt.ErrTokenInvalidClaims
	}

	return models.Actor{ID: sub, Role: role, DepartmentID: dept}, nil
}

func actorFrom(c *gin.Context) models.Actor {
	v, _ := c.Get(actorKey)
	actor, _ := v.(models.Actor)
	return actor
}
