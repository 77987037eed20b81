package handler

import (
	"net/http"

	"monepiceriz/internal/phone"

	"github.com/gin-gonic/gin"
)

type PhoneHandler struct{}

func NewPhoneHandler() *PhoneHandler {
	return &PhoneHandler{}
}

// InspectHandler valide et normalise un numéro ivoirien. Une entrée
// invalide répond 200 avec valid=false : ce n'est pas une erreur HTTP.
func (h *PhoneHandler) InspectHandler(c *gin.Context) {
	number := c.Param("number")

	if !phone.IsValid(number) {
		c.JSON(http.StatusOK, gin.H{
			"input": number,
			"valid": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"input":         number,
		"valid":         true,
		"national":      phone.ToNational(number),
		"international": phone.ToInternational(number),
		"operator":      phone.OperatorOf(number),
	})
}
