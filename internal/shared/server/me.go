package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok || principal.ID <= 0 {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	response := gin.H{
		"userId": principal.ID,
		"roles":  principal.Roles,
	}
	if principal.Email != "" {
		response["email"] = principal.Email
	}
	respond.JSON(c, http.StatusOK, response)
}
