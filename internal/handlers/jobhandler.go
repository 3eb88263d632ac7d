package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobx/internal/dtos"
	"github.com/justsurfingit/jobx/internal/services"
	"github.com/justsurfingit/jobx/internal/storage"
)

// PostingHandler serves the /works resource.
type PostingHandler struct {
	postings *services.PostingService
	drafts   *services.DraftExtractor
	files    Uploads
	log      *slog.Logger
}

func NewPostingHandler(postings *services.PostingService, drafts *services.DraftExtractor, files Uploads, log *slog.Logger) *PostingHandler {
	return &PostingHandler{postings: postings, drafts: drafts, files: files, log: log}
}

// ExtractDraft is the POST /works/extract endpoint.
func (h *PostingHandler) ExtractDraft(c *gin.Context) {
	var req dtos.PostingExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	draft, err := h.drafts.ExtractDraft(c.Request.Context(), req.RawHTML)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"data": draft})
}

func (h *PostingHandler) input(c *gin.Context) (services.PostingInput, error) {
	var req dtos.PostingRequest
	if err := c.ShouldBind(&req); err != nil {
		return services.PostingInput{}, bindError(err)
	}
	image, err := optionalUpload(c, h.files, "image", storage.Image)
	if err != nil {
		return services.PostingInput{}, err
	}
	return services.PostingInput{
		Title:       req.Title,
		Position:    req.Position,
		Salary:      req.Salary,
		Requirement: req.Requirement,
		Description: req.Description,
		ApplyDate:   req.ApplyDate,
		EndDate:     req.EndDate,
		Image:       image,
	}, nil
}

func (h *PostingHandler) Create(c *gin.Context) {
	in, err := h.input(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	posting, err := h.postings.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		discardUpload(h.files, h.log, in.Image)
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "Job created successfully", gin.H{"workId": posting.ID, "work": posting})
}

func (h *PostingHandler) List(c *gin.Context) {
	postings, err := h.postings.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"works": postings})
}

func (h *PostingHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	posting, err := h.postings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"work": posting})
}

func (h *PostingHandler) ListByCompany(c *gin.Context) {
	id, err := paramID(c, "company_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	postings, err := h.postings.ListByCompany(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"works": postings})
}

func (h *PostingHandler) Edit(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	in, err := h.input(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	posting, err := h.postings.Edit(c.Request.Context(), userID(c), id, in)
	if err != nil {
		discardUpload(h.files, h.log, in.Image)
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Job updated successfully", gin.H{"work": posting})
}

func (h *PostingHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.postings.Delete(c.Request.Context(), userID(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Job deleted successfully", nil)
}
