package dtos

import "strings"

// CVRequest accepts skills either as repeated fields or one comma-separated value.
type CVRequest struct {
	Name       string   `form:"name" json:"name"`
	Email      string   `form:"email" json:"email"`
	Phone      string   `form:"phone" json:"phone"`
	Education  string   `form:"education" json:"education"`
	Experience string   `form:"experience" json:"experience"`
	Skills     []string `form:"skills" json:"skills"`
}

// SkillList flattens comma-separated entries. A nil result means "not sent".
func (r CVRequest) SkillList() []string {
	if r.Skills == nil {
		return nil
	}
	out := make([]string, 0, len(r.Skills))
	for _, entry := range r.Skills {
		for _, skill := range strings.Split(entry, ",") {
			if skill = strings.TrimSpace(skill); skill != "" {
				out = append(out, skill)
			}
		}
	}
	return out
}
