package dtos

// PostingExtractionRequest is a pasted job advert to turn into a draft.
type PostingExtractionRequest struct {
	RawHTML string `json:"raw_html" binding:"required"`
	URL     string `json:"url"`
}

// PostingRequest is the body of create and edit. Create also requires the
// fields below; edit keeps any that are empty.
type PostingRequest struct {
	Title       string `form:"title" json:"title"`
	Position    string `form:"position" json:"position"`
	Salary      string `form:"salary" json:"salary"`
	Requirement string `form:"requirement" json:"requirement"`
	Description string `form:"description" json:"description"`
	ApplyDate   string `form:"apply_date" json:"apply_date"`
	EndDate     string `form:"end_date" json:"end_date"`
}
