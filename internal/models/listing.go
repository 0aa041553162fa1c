package models

import "time"

// Listing is one job posting captured from a results page.
// Optional fields are nil when the lookup on the page failed.
type Listing struct {
	Designation  *string   `json:"Designation,omitempty"`
	PageLink     *string   `json:"Page_link,omitempty"`
	Company      *string   `json:"Company,omitempty"`
	Location     *string   `json:"Location,omitempty"`
	TimeCaptured time.Time `json:"Time_captured"`

	QueryTitle    string `json:"query_title,omitempty"`
	QueryLocation string `json:"query_location,omitempty"`
	Page          int    `json:"page,omitempty"`
}

// Some returns a pointer to value, for filling optional fields.
func Some(value string) *string {
	return &value
}

// Value dereferences an optional field, returning "" when absent.
func Value(field *string) string {
	if field == nil {
		return ""
	}
	return *field
}

// SameContent reports whether two listings carry the same extracted fields,
// ignoring the capture time and the query annotations.
func (l Listing) SameContent(other Listing) bool {
	return equalOptional(l.Designation, other.Designation) &&
		equalOptional(l.PageLink, other.PageLink) &&
		equalOptional(l.Company, other.Company) &&
		equalOptional(l.Location, other.Location)
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
