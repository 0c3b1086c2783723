package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Quartos
// ============================================================

type roomsResponse struct {
	Rooms []domain.RoomType `json:"rooms"`
}

type roomResponse struct {
	Room   domain.RoomType `json:"room"`
	Notice *domain.Notice  `json:"notice,omitempty"`
}

func listRoomsHandler(rooms *service.RoomService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/rooms")
		defer span.End()

		list, err := rooms.List(ctx, CredentialFromContext(ctx))
		if err != nil {
			handleListError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, roomsResponse{Rooms: list})
	}
}

func createRoomHandler(rooms *service.RoomService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/rooms")
		defer span.End()

		var room domain.RoomType
		if !decodeJSON(w, r, &room) {
			return
		}

		saved, err := rooms.Create(ctx, CredentialFromContext(ctx), room)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, roomResponse{Room: saved, Notice: domain.SuccessNotice("Quarto salvo com sucesso!")})
	}
}

func roomIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "roomId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ErrValidation{Field: "roomId", Message: "Identificador de quarto inválido."}
	}
	return id, nil
}

func updateRoomHandler(rooms *service.RoomService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/rooms/{roomId}")
		defer span.End()

		id, err := roomIDParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		var room domain.RoomType
		if !decodeJSON(w, r, &room) {
			return
		}

		saved, err := rooms.Update(ctx, CredentialFromContext(ctx), id, room)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, roomResponse{Room: saved, Notice: domain.SuccessNotice("Quarto atualizado!")})
	}
}

func deleteRoomHandler(rooms *service.RoomService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/rooms/{roomId}")
		defer span.End()

		id, err := roomIDParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int64("room.id", id))

		if err := rooms.Delete(ctx, CredentialFromContext(ctx), id, confirmed(r)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		msg := "Quarto excluído."
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: msg, ID: strconv.FormatInt(id, 10), Notice: domain.SuccessNotice(msg)})
	}
}

// ============================================================
// Documentos
// ============================================================

const maxUploadMemory = 32 << 20

type documentsResponse struct {
	Documents []domain.UserDocument `json:"documents"`
	Limit     int                   `json:"limit"`
}

// readUploads collects the multipart files sent as "files" (or "file").
// cleanup closes them and removes any temp files.
func readUploads(r *http.Request) ([]domain.Upload, func(), error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, func() {}, &domain.ErrValidation{Field: "files", Message: "Envie os arquivos como multipart/form-data."}
	}
	headers := r.MultipartForm.File["files"]
	headers = append(headers, r.MultipartForm.File["file"]...)

	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
		r.MultipartForm.RemoveAll()
	}

	uploads := make([]domain.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			cleanup()
			return nil, func() {}, &domain.ErrValidation{Field: "files", Message: "Não foi possível ler " + fh.Filename + "."}
		}
		opened = append(opened, f)
		uploads = append(uploads, domain.Upload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	if len(uploads) == 0 {
		cleanup()
		return nil, func() {}, &domain.ErrValidation{Field: "files", Message: "Selecione pelo menos um arquivo PDF."}
	}
	return uploads, cleanup, nil
}

func listDocumentsHandler(docs *service.DocumentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/documents")
		defer span.End()

		list, err := docs.List(ctx, CredentialFromContext(ctx))
		if err != nil {
			handleListError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, documentsResponse{Documents: list, Limit: docs.Limit()})
	}
}

func uploadDocumentsHandler(docs *service.DocumentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/documents")
		defer span.End()

		files, cleanup, err := readUploads(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		defer cleanup()

		res, err := docs.UploadBatch(ctx, CredentialFromContext(ctx), files)
		if err != nil && res == nil {
			handleServiceError(w, err, logger)
			return
		}

		status := http.StatusOK
		switch {
		case err != nil:
			status = http.StatusUnprocessableEntity
		case len(res.Uploaded) > 0:
			status = http.StatusCreated
		}
		writeJSON(w, status, res)
	}
}

func deleteDocumentHandler(docs *service.DocumentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/documents/{documentId}")
		defer span.End()

		id, err := documentIDParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := docs.Delete(ctx, CredentialFromContext(ctx), id, confirmed(r)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		msg := "Documento excluído."
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: msg, ID: id, Notice: domain.SuccessNotice(msg)})
	}
}

func documentIDParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "documentId")
	if domain.IsPlaceholderDocumentID(id) {
		return "", &domain.ErrValidation{Field: "documentId", Message: "Identificador de documento inválido."}
	}
	return id, nil
}

// ============================================================
// Reservas
// ============================================================

func bookingFilter(r *http.Request) domain.BookingFilter {
	q := r.URL.Query()
	return domain.BookingFilter{Status: domain.BookingStatus(q.Get("status")), Search: q.Get("q")}
}

func listBookingsHandler(bookings *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/bookings")
		defer span.End()

		list, err := bookings.List(ctx, CredentialFromContext(ctx), bookingFilter(r))
		if err != nil {
			handleListError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

type bookingStatusResponse struct {
	*domain.BookingList
	Notice *domain.Notice `json:"notice,omitempty"`
}

func updateBookingStatusHandler(bookings *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/bookings/{bookingId}/status")
		defer span.End()

		var req domain.BookingStatusUpdate
		if !decodeJSON(w, r, &req) {
			return
		}

		id := chi.URLParam(r, "bookingId")
		list, err := bookings.UpdateStatus(ctx, CredentialFromContext(ctx), id, req.Status, bookingFilter(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, bookingStatusResponse{BookingList: list, Notice: domain.SuccessNotice("Status da reserva atualizado!")})
	}
}
