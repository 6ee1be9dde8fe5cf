package handler

import (
	"net/http"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/service"
	"github.com/segyhp/loan-ledger/pkg/response"

	"github.com/go-playground/validator/v10"
)

type PaymentHandler struct {
	service   *service.PaymentService
	validator *validator.Validate
}

func NewPaymentHandler(service *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service:   service,
		validator: NewValidator(),
	}
}

// Create records a payment
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}

	var request domain.CreatePaymentRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	payment, err := h.service.Create(r.Context(), principal.OwnerID, &request)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Created(w, payment)
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}

	payments, err := h.service.List(r.Context(), principal.OwnerID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, payments)
}

func (h *PaymentHandler) ListByLoan(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	payments, err := h.service.ListByLoan(r.Context(), principal.OwnerID, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, payments)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal.OwnerID, id); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Message(w, "Payment deleted")
}
