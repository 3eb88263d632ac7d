package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/dtos"
	"github.com/justsurfingit/jobx/internal/services"
	"github.com/justsurfingit/jobx/internal/storage"
)

type ApplicationHandler struct {
	applications *services.ApplicationService
	files        Uploads
	log          *slog.Logger
}

func NewApplicationHandler(applications *services.ApplicationService, files Uploads, log *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, files: files, log: log}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req dtos.ApplyRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	resume, err := optionalUpload(c, h.files, "resume", storage.PDF)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	app, err := h.applications.Apply(c.Request.Context(), userID(c), services.ApplyInput{
		PostingID: req.PostingID,
		Name:      req.Name,
		Email:     req.Email,
		Resume:    resume,
	})
	if err != nil {
		discardUpload(h.files, h.log, resume)
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "Application submitted successfully", gin.H{"applicationId": app.ID})
}

func (h *ApplicationHandler) Edit(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req dtos.ApplicationEditRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	resume, err := optionalUpload(c, h.files, "resume", storage.PDF)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	app, err := h.applications.Edit(c.Request.Context(), userID(c), id, services.ApplicationEdit{Name: req.Name, Email: req.Email, Resume: resume})
	if err != nil {
		discardUpload(h.files, h.log, resume)
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Application updated successfully", gin.H{"application": app})
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.applications.Delete(c.Request.Context(), userID(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Application deleted successfully", nil)
}

// Mine lists the caller's applications. With ?posting_id (or the older
// ?work_id) it answers with that single application or null.
func (h *ApplicationHandler) Mine(c *gin.Context) {
	raw := c.Query("posting_id")
	if raw == "" {
		raw = c.Query("work_id")
	}
	if raw == "" {
		apps, err := h.applications.ListForApplicant(c.Request.Context(), userID(c), nil)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		respond(c, http.StatusOK, "", gin.H{"applications": apps})
		return
	}

	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondError(c, h.log, apperr.Validation("invalid posting_id"))
		return
	}
	postingID := uint(parsed)
	apps, err := h.applications.ListForApplicant(c.Request.Context(), userID(c), &postingID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var app any
	if len(apps) > 0 {
		app = apps[0]
	}
	respond(c, http.StatusOK, "", gin.H{"application": app})
}

func (h *ApplicationHandler) ForEmployer(c *gin.Context) {
	apps, err := h.applications.ListForEmployer(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"applications": apps})
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req dtos.ApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	app, err := h.applications.UpdateStatus(c.Request.Context(), userID(c), id, services.StatusInput{
		Status:       req.Status,
		ScheduleTime: req.ScheduleTime,
		MeetingLink:  req.MeetingLink,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Application status updated successfully", gin.H{"application": app})
}
