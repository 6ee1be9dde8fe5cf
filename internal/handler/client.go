package handler

import (
	"net/http"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/service"
	"github.com/segyhp/loan-ledger/pkg/response"

	"github.com/go-playground/validator/v10"
)

type ClientHandler struct {
	service   *service.ClientService
	validator *validator.Validate
}

func NewClientHandler(service *service.ClientService) *ClientHandler {
	return &ClientHandler{
		service:   service,
		validator: NewValidator(),
	}
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}

	var request domain.CreateClientRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	client, err := h.service.Create(r.Context(), principal.OwnerID, &request)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Created(w, client)
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}

	clients, err := h.service.List(r.Context(), principal.OwnerID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, clients)
}

func (h *ClientHandler) Search(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}

	clients, err := h.service.Search(r.Context(), principal.OwnerID, r.URL.Query().Get("term"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, clients)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.Get(r.Context(), principal.OwnerID, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, detail)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var request domain.UpdateClientRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	client, err := h.service.Update(r.Context(), principal.OwnerID, id, &request)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	response.Message(w, "Client deleted")
}
