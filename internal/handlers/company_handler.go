package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobx/internal/dtos"
	"github.com/justsurfingit/jobx/internal/services"
	"github.com/justsurfingit/jobx/internal/storage"
)

type CompanyHandler struct {
	companies *services.CompanyService
	files     Uploads
	log       *slog.Logger
}

func NewCompanyHandler(companies *services.CompanyService, files Uploads, log *slog.Logger) *CompanyHandler {
	return &CompanyHandler{companies: companies, files: files, log: log}
}

func (h *CompanyHandler) input(c *gin.Context) (services.CompanyInput, error) {
	var req dtos.CompanyRequest
	if err := c.ShouldBind(&req); err != nil {
		return services.CompanyInput{}, bindError(err)
	}
	logo, err := optionalUpload(c, h.files, "logo", storage.Image)
	if err != nil {
		return services.CompanyInput{}, err
	}
	return services.CompanyInput{Name: req.Name, Address: req.Address, TaxID: req.TaxID, Logo: logo}, nil
}

func (h *CompanyHandler) Create(c *gin.Context) {
	in, err := h.input(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	company, err := h.companies.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		discardUpload(h.files, h.log, in.Logo)
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "Company request submitted for approval", gin.H{"company": company})
}

// Mine answers with a list for admins and a single company (or null) otherwise.
func (h *CompanyHandler) Mine(c *gin.Context) {
	a := actor(c)
	companies, err := h.companies.Mine(c.Request.Context(), a)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if a.IsAdmin() {
		respond(c, http.StatusOK, "", gin.H{"company": companies})
		return
	}
	var company any
	if len(companies) > 0 {
		company = companies[0]
	}
	respond(c, http.StatusOK, "", gin.H{"company": company})
}

func (h *CompanyHandler) Edit(c *gin.Context) {
	in, err := h.input(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	company, err := h.companies.Edit(c.Request.Context(), userID(c), in)
	if err != nil {
		discardUpload(h.files, h.log, in.Logo)
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Company updated successfully", gin.H{"company": company})
}

func (h *CompanyHandler) Delete(c *gin.Context) {
	if err := h.companies.Delete(c.Request.Context(), userID(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Company deleted successfully", nil)
}

func (h *CompanyHandler) Approve(c *gin.Context) {
	var req dtos.ApproveCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	company, err := h.companies.Approve(c.Request.Context(), req.CompanyID, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Company "+req.Status, gin.H{"company": company})
}

func (h *CompanyHandler) ListApproved(c *gin.Context) {
	companies, err := h.companies.ListApproved(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"companies": companies})
}

func (h *CompanyHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	company, err := h.companies.GetApproved(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"company": company})
}
