package models

import "time"

// InquiryStatus is the lifecycle state of a project inquiry
type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusReviewed  InquiryStatus = "reviewed"
	InquiryStatusContacted InquiryStatus = "contacted"
	InquiryStatusConverted InquiryStatus = "converted"
	InquiryStatusDeclined  InquiryStatus = "declined"
)

// InquiryStatuses lists every valid status in lifecycle order
var InquiryStatuses = []InquiryStatus{
	InquiryStatusNew,
	InquiryStatusReviewed,
	InquiryStatusContacted,
	InquiryStatusConverted,
	InquiryStatusDeclined,
}

// IsValid reports whether s is one of InquiryStatuses.
// Any valid status may follow any other; there is no transition graph.
func (s InquiryStatus) IsValid() bool {
	for _, status := range InquiryStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// RawInquiry is the loosely typed field bag posted by the inquiry modal
type RawInquiry map[string]any

// NormalizedInquiry is a submission that passed trimming, capping and validation
type NormalizedInquiry struct {
	Name           string
	Email          string
	BusinessName   string
	Location       string
	CurrentWebsite *string
	GoogleReviews  *string
	SubmittedAt    string
}

// ProjectInquiry is a stored lead
type ProjectInquiry struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	BusinessName   string        `json:"businessName"`
	Location       string        `json:"location"`
	CurrentWebsite *string       `json:"currentWebsite,omitempty"`
	GoogleReviews  *string       `json:"googleReviews,omitempty"`
	SubmittedAt    string        `json:"submittedAt"`
	CreatedAt      time.Time     `json:"createdAt"`
	Status         InquiryStatus `json:"status"`
}

// Clone returns a copy that shares no pointers with p
func (p ProjectInquiry) Clone() ProjectInquiry {
	out := p
	if p.CurrentWebsite != nil {
		v := *p.CurrentWebsite
		out.CurrentWebsite = &v
	}
	if p.GoogleReviews != nil {
		v := *p.GoogleReviews
		out.GoogleReviews = &v
	}
	return out
}

// CloneInquiries deep-copies a listing
func CloneInquiries(in []ProjectInquiry) []ProjectInquiry {
	out := make([]ProjectInquiry, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// SubmitInquiryResponse is returned to the modal after a successful submit
type SubmitInquiryResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// InquiryRejection is the 400 body for a submission that failed validation
type InquiryRejection struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// UpdateInquiryStatusRequest is the payload for changing an inquiry's status
type UpdateInquiryStatusRequest struct {
	Status InquiryStatus `json:"status" binding:"required,oneof=new reviewed contacted converted declined"`
}

// InquiryListResponse wraps admin listings
type InquiryListResponse struct {
	Inquiries []ProjectInquiry `json:"inquiries"`
	Total     int              `json:"total"`
}

// ExportInquiriesResponse reports where a snapshot was written
type ExportInquiriesResponse struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
