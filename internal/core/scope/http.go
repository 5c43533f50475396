package scope

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/tipon-events/tipon/internal/platform/request"
	"github.com/tipon-events/tipon/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.getScope)
}

func (handler *Handler) getScope(writer http.ResponseWriter, request *http.Request) {
	code := requestutil.ScopeCode(request)

	s, err := handler.service.Get(request.Context(), code)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, s)
}
