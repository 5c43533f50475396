package registration

import (
	"net/http"

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

// RegisterScopeRoutes mounts the scope-relative routes (capacity checks and
// submission) under /scopes/{code}.
func (handler *Handler) RegisterScopeRoutes(router chi.Router) {
	router.Get("/capacity", handler.checkCapacity)
	router.Get("/capacity/location", handler.checkLocationCapacity)
	router.Post("/registrations", handler.submit)
}

// RegisterLookupRoutes mounts the transaction-id lookup under /registrations.
func (handler *Handler) RegisterLookupRoutes(router chi.Router) {
	router.Get("/{transId}", handler.lookup)
}

// resolveScope prefers the {code} URL parameter and falls back to the scope
// resolved from the request domain.
func resolveScope(request *http.Request) (string, error) {
	if code := requestutil.ScopeCode(request); code != "" {
		return code, nil
	}
	if code := ctxutil.GetScope(request.Context()); code != "" {
		return code, nil
	}
	return "", validate.RequiredError("code", "A conference scope code is required")
}

func (handler *Handler) checkCapacity(writer http.ResponseWriter, request *http.Request) {
	scope, err := resolveScope(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	report, err := handler.service.CheckCapacity(request.Context(), scope)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}

func (handler *Handler) checkLocationCapacity(writer http.ResponseWriter, request *http.Request) {
	scope, err := resolveScope(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	province := requestutil.Query(request, "province")
	lgu := requestutil.Query(request, "lgu")

	report, err := handler.service.CheckLocationCapacity(request.Context(), scope, province, lgu)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}

func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	scope, err := resolveScope(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input SubmitInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	receipt, err := handler.service.Submit(request.Context(), scope, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, receipt)
}

func (handler *Handler) lookup(writer http.ResponseWriter, request *http.Request) {
	transID := requestutil.TransactionID(request)

	reg, err := handler.service.Lookup(request.Context(), transID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reg)
}
