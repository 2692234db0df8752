package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

var OpportunityTypes = []string{"job", "internship", "mentor", "coaching", "freelance", "event"}

// Product is a marketplace listing. SellerVerified is filled from the
// seller's account on every read and is never persisted.
type Product struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Price          int       `json:"price"`
	Category       string    `json:"category"`
	Image          string    `json:"image"`
	College        string    `json:"college"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	State          string    `json:"state"`
	City           string    `json:"city"`
	UserID         string    `json:"userId"`
	Sold           bool      `json:"sold"`
	Featured       bool      `json:"featured"`
	CreatedAt      time.Time `json:"createdAt"`
	SellerVerified bool      `json:"sellerVerified"`
}

// Opportunity is a posted job or event listing. PosterVerified, like
// the poster contact fields, is filled on read and is never persisted.
type Opportunity struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Type           string     `json:"type"`
	Location       string     `json:"location"`
	Duration       string     `json:"duration,omitempty"`
	Salary         string     `json:"salary,omitempty"`
	Description    string     `json:"description"`
	Requirements   []string   `json:"requirements"`
	Tags           []string   `json:"tags"`
	Featured       bool       `json:"featured"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	ContactEmail   string     `json:"contactEmail"`
	ContactPhone   string     `json:"contactPhone,omitempty"`
	UserID         string     `json:"userId"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"createdAt"`
	PosterVerified bool       `json:"posterVerified"`
	PosterName     string     `json:"posterName,omitempty"`
	PosterEmail    string     `json:"posterEmail,omitempty"`
}

type College struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	AddedBy    string    `json:"addedBy"`
	Verified   bool      `json:"verified"`
	UsageCount int       `json:"usageCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FlexibleInt accepts a JSON number or a numeric string. Form posts send
// prices as strings.
type FlexibleInt struct {
	Value int
	Valid bool
}

func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = FlexibleInt{}
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*f = FlexibleInt{}
		return nil
	}
	*f = FlexibleInt{Value: n, Valid: true}
	return nil
}

// StringList accepts either a JSON array of strings or a comma-separated
// string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}
	var items []string
	if data[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
	} else {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		items = strings.Split(s, ",")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*l = out
	return nil
}

type CreateProductRequest struct {
	Title    string      `json:"title"`
	Price    FlexibleInt `json:"price"`
	Category string      `json:"category"`
	Image    string      `json:"image"`
	Phone    string      `json:"phone"`
	College  string      `json:"college"`
	State    string      `json:"state"`
	City     string      `json:"city"`
}

type SetSoldRequest struct {
	Sold *bool `json:"sold" binding:"required"`
}

type CreateOpportunityRequest struct {
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Type         string     `json:"type"`
	Location     string     `json:"location"`
	Duration     string     `json:"duration"`
	Salary       string     `json:"salary"`
	Description  string     `json:"description"`
	Requirements StringList `json:"requirements"`
	Tags         StringList `json:"tags"`
	Deadline     string     `json:"deadline"`
	ContactEmail string     `json:"contactEmail"`
	ContactPhone string     `json:"contactPhone"`
}

type ToggleOpportunityRequest struct {
	OpportunityID string `json:"opportunityId" binding:"required"`
	Active        *bool  `json:"active" binding:"required"`
}

type AddCollegeRequest struct {
	Name    string `json:"name"`
	AddedBy string `json:"addedBy"`
}

type PresignUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type PresignUploadResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	ExpiresIn int64  `json:"expiresIn"`
}
