package dtos

type CompanyRequest struct {
	Name    string `form:"company_name" json:"company_name"`
	Address string `form:"address" json:"address"`
	TaxID   string `form:"pan_no" json:"pan_no"`
}

type ApproveCompanyRequest struct {
	CompanyID uint   `json:"companyId" binding:"required"`
	Status    string `json:"status" binding:"required"`
}
