package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/domeohq/doors-backend/api/middleware"
	"github.com/domeohq/doors-backend/api/responses"
	"github.com/domeohq/doors-backend/api/validators"
	"github.com/domeohq/doors-backend/internal/documents"
	"github.com/domeohq/doors-backend/internal/lifecycle"
	"github.com/domeohq/doors-backend/pkg/enums"
	pkgerrors "github.com/domeohq/doors-backend/pkg/errors"
	"github.com/domeohq/doors-backend/pkg/logger"
	"github.com/domeohq/doors-backend/pkg/pagination"
)

// maxCommentLength caps free-text comments before they reach storage.
const maxCommentLength = 2000

type createDocumentRequest struct {
	Type              string           `json:"type" validate:"required,oneof=order quote invoice supplier_order"`
	ParentDocumentID  *uuid.UUID       `json:"parent_document_id,omitempty"`
	ClientID          *uuid.UUID       `json:"client_id,omitempty"`
	CartSessionID     *string          `json:"cart_session_id,omitempty"`
	Items             []map[string]any `json:"items" validate:"required,min=1"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	Subtotal          decimal.Decimal  `json:"subtotal"`
	TaxAmount         decimal.Decimal  `json:"tax_amount"`
	Comment           *string          `json:"comment,omitempty"`
	PreventDuplicates bool             `json:"prevent_duplicates"`
}

type updateStatusRequest struct {
	Type   string `json:"type" validate:"required,oneof=order quote invoice supplier_order"`
	Status string `json:"status" validate:"required"`
}

// CreateDocument handles the creation command for all four document types.
func CreateDocument(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Duplicate protection is opt-out, so an omitted field means true.
		req := createDocumentRequest{PreventDuplicates: true}
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, _ := uuid.Parse(middleware.UserIDFromContext(r.Context()))

		if req.Comment != nil {
			trimmed := validators.SanitizeString(*req.Comment, maxCommentLength)
			req.Comment = &trimmed
		}

		result, err := svc.Create(r.Context(), documents.CreateDocumentInput{
			Type:              enums.DocumentType(req.Type),
			ParentDocumentID:  req.ParentDocumentID,
			ClientID:          req.ClientID,
			CartSessionID:     req.CartSessionID,
			Items:             req.Items,
			TotalAmount:       req.TotalAmount,
			Subtotal:          req.Subtotal,
			TaxAmount:         req.TaxAmount,
			Comment:           req.Comment,
			PreventDuplicates: req.PreventDuplicates,
			CreatedBy:         actorID,
			ActorRole:         enums.UserRole(middleware.RoleFromContext(r.Context())),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if result.IsNew {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}

// UpdateDocumentStatus handles the role-gated transition command.
func UpdateDocumentStatus(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		documentID, err := validators.ParsePathUUID(chi.URLParam(r, "documentId"), "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, _ := uuid.Parse(middleware.UserIDFromContext(r.Context()))

		result, err := svc.Transition(r.Context(), lifecycle.TransitionInput{
			Type:       enums.DocumentType(req.Type),
			DocumentID: documentID,
			NewStatus:  req.Status,
			ActorID:    actorID,
			ActorRole:  enums.UserRole(middleware.RoleFromContext(r.Context())),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func documentTypeFromQuery(r *http.Request) (enums.DocumentType, error) {
	docType, err := enums.ParseDocumentType(r.URL.Query().Get("type"))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document type").
			WithDetails(map[string]any{"field": "type"})
	}
	return docType, nil
}

// GetDocument serves the cached display read for one document.
func GetDocument(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		documentID, err := validators.ParsePathUUID(chi.URLParam(r, "documentId"), "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		docType, err := documentTypeFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), docType, documentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// GetRelatedDocuments serves the hierarchy view rooted at a document's order.
func GetRelatedDocuments(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		documentID, err := validators.ParsePathUUID(chi.URLParam(r, "documentId"), "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		docType, err := documentTypeFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		related, err := svc.Related(r.Context(), docType, documentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, related)
	}
}

// ListClientDocuments serves the cursor-paginated cross-type document list.
func ListClientDocuments(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := validators.ParsePathUUID(chi.URLParam(r, "clientId"), "clientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var docType *enums.DocumentType
		if r.URL.Query().Get("type") != "" {
			parsed, err := documentTypeFromQuery(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			docType = &parsed
		}

		list, err := svc.ListByClient(r.Context(), clientID, docType, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
