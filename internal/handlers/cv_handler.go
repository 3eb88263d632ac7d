package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/dtos"
	"github.com/justsurfingit/jobx/internal/services"
	"github.com/justsurfingit/jobx/internal/storage"
)

type CVHandler struct {
	cvs   *services.CVService
	files Uploads
	log   *slog.Logger
}

func NewCVHandler(cvs *services.CVService, files Uploads, log *slog.Logger) *CVHandler {
	return &CVHandler{cvs: cvs, files: files, log: log}
}

func (h *CVHandler) input(c *gin.Context) (services.CVInput, error) {
	var req dtos.CVRequest
	if err := c.ShouldBind(&req); err != nil {
		return services.CVInput{}, bindError(err)
	}
	photo, err := optionalUpload(c, h.files, "photo", storage.Image)
	if err != nil {
		return services.CVInput{}, err
	}
	return services.CVInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Education:  req.Education,
		Experience: req.Experience,
		Skills:     req.SkillList(),
		Photo:      photo,
	}, nil
}

// Mine answers with the caller's CV or null.
func (h *CVHandler) Mine(c *gin.Context) {
	cv, err := h.cvs.Get(c.Request.Context(), userID(c))
	if apperr.Is(err, apperr.KindNotFound) {
		respond(c, http.StatusOK, "", gin.H{"cv": nil})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"cv": cv})
}

func (h *CVHandler) Create(c *gin.Context) {
	in, err := h.input(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	cv, err := h.cvs.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		discardUpload(h.files, h.log, in.Photo)
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "CV created successfully", gin.H{"cvId": cv.ID, "pdfPath": cv.DocumentPath, "cv": cv})
}

func (h *CVHandler) Update(c *gin.Context) {
	in, err := h.input(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	cv, err := h.cvs.Update(c.Request.Context(), userID(c), in)
	if err != nil {
		discardUpload(h.files, h.log, in.Photo)
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "CV updated successfully", gin.H{"pdfPath": cv.DocumentPath, "cv": cv})
}

func (h *CVHandler) Delete(c *gin.Context) {
	if err := h.cvs.Delete(c.Request.Context(), userID(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "CV deleted successfully", nil)
}
