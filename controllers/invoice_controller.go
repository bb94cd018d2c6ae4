package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-reservations/services"
	"hotel-reservations/utils"
)

type InvoiceController struct {
	InvoiceSvc *services.InvoiceService
}

func NewInvoiceController(svc *services.InvoiceService) *InvoiceController {
	return &InvoiceController{InvoiceSvc: svc}
}

func (ctrl *InvoiceController) GenerateInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	invoice, err := ctrl.InvoiceSvc.GenerateInvoice(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoice)
}
