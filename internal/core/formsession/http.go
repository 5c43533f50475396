package formsession

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tipon-events/tipon/internal/platform/ctxutil"
	requestutil "github.com/tipon-events/tipon/internal/platform/request"
	"github.com/tipon-events/tipon/internal/platform/respond"
	"github.com/tipon-events/tipon/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the session routes under /sessions.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.start)
	router.Post("/{id}/extend", handler.extend)
	router.Get("/{id}", handler.get)
}

type startRequest struct {
	Scope string `json:"scope"`
}

func (handler *Handler) start(writer http.ResponseWriter, request *http.Request) {
	var body startRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	scope := strings.ToUpper(strings.TrimSpace(body.Scope))
	if scope == "" {
		scope = ctxutil.GetScope(request.Context())
	}
	if scope == "" {
		respond.Error(writer, request, validate.RequiredError("scope", "A scope code is required"))
		return
	}

	status, err := handler.service.Start(request.Context(), scope)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, status)
}

func (handler *Handler) extend(writer http.ResponseWriter, request *http.Request) {
	status, err := handler.service.Extend(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, status)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	status, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, status)
}
