package proof

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tipon-events/tipon/internal/platform/constants"
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

// RegisterRoutes mounts the proof routes under /registrations/{transId}/proofs.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.upload)
	router.Get("/", handler.list)
	router.Delete("/{seq}", handler.remove)
}

func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	transID := requestutil.TransactionID(request)

	// Bound the whole multipart body slightly above the file cap so the
	// size rule in the service produces the precise error.
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxProofSizeBytes+4096)

	file, fileHeader, err := request.FormFile("file")
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("file", "An uploaded file is required"))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	record, err := handler.service.Upload(request.Context(), transID, file, fileHeader.Size, contentType)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	transID := requestutil.TransactionID(request)

	proofs, err := handler.service.List(request.Context(), transID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, proofs)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	transID := requestutil.TransactionID(request)

	seq, err := strconv.Atoi(requestutil.Param(request, "seq"))
	if err != nil || seq < 1 {
		respond.Error(writer, request, validate.RequiredError("seq", "Must be a positive sequence number"))
		return
	}

	if err := handler.service.Delete(request.Context(), transID, seq); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
