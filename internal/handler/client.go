package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ffelipeandres24/banco-maria/internal/domain"
	"github.com/ffelipeandres24/banco-maria/internal/service"
	"github.com/ffelipeandres24/banco-maria/pkg/response"
)

type ClientHandler struct {
	service   *service.ClientService
	validator *validator.Validate
}

func NewClientHandler(service *service.ClientService) *ClientHandler {
	return &ClientHandler{
		service:   service,
		validator: newValidator(),
	}
}

// Register handles POST /clients
func (h *ClientHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request domain.RegisterClientRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	client, err := h.service.Register(r.Context(), &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, client)
}

// Update handles PUT /clients/{id}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "invalid client id", err)
		return
	}

	var request domain.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	if err := h.service.Update(r.Context(), id, &request); err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "client updated"})
}

// Delete handles DELETE /clients/{id}
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "invalid client id", err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "client deleted"})
}

// List handles GET /clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.List(r.Context())
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, clients)
}
