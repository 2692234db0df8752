package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AuthLogoutResponse struct {
	Message string `json:"message"`
}

type ProductListResponse struct {
	Products []Product `json:"products"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Product *Product `json:"product"`
}

type OpportunityListResponse struct {
	Success       bool          `json:"success"`
	Opportunities []Opportunity `json:"opportunities"`
}

type OpportunityResponse struct {
	Success     bool         `json:"success"`
	Opportunity *Opportunity `json:"opportunity"`
}

type CollegeSearchResponse struct {
	Colleges []string `json:"colleges"`
}

type CollegeResponse struct {
	Success bool     `json:"success"`
	College *College `json:"college"`
	Message string   `json:"message"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

type AdminUserListResponse struct {
	Success    bool       `json:"success"`
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

type AdminUserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user"`
}

type UserContentStats struct {
	TotalProducts         int `json:"totalProducts"`
	SoldProducts          int `json:"soldProducts"`
	ActiveProducts        int `json:"activeProducts"`
	TotalOpportunities    int `json:"totalOpportunities"`
	ActiveOpportunities   int `json:"activeOpportunities"`
	InactiveOpportunities int `json:"inactiveOpportunities"`
}

type AdminUserDetail struct {
	Success       bool             `json:"success"`
	User          *User            `json:"user"`
	Products      []Product        `json:"products"`
	Opportunities []Opportunity    `json:"opportunities"`
	Stats         UserContentStats `json:"stats"`
}

type AdminOpportunityListResponse struct {
	Success       bool          `json:"success"`
	Opportunities []Opportunity `json:"opportunities"`
	Pagination    Pagination    `json:"pagination"`
}

type TypeCount struct {
	Type  string `json:"_id"`
	Count int64  `json:"count"`
}

type UserStats struct {
	Total    int64 `json:"total"`
	Verified int64 `json:"verified"`
	Recent   int64 `json:"recent"`
}

type OpportunityStats struct {
	Total    int64       `json:"total"`
	Active   int64       `json:"active"`
	Inactive int64       `json:"inactive"`
	Recent   int64       `json:"recent"`
	ByType   []TypeCount `json:"byType"`
}

type ProductStats struct {
	Total  int64 `json:"total"`
	Sold   int64 `json:"sold"`
	Active int64 `json:"active"`
	Recent int64 `json:"recent"`
}

type Stats struct {
	Users         UserStats        `json:"users"`
	Opportunities OpportunityStats `json:"opportunities"`
	Products      ProductStats     `json:"products"`
}

type StatsResponse struct {
	Success bool  `json:"success"`
	Stats   Stats `json:"stats"`
}

type AdminUserUpdateRequest struct {
	UserID  string          `json:"userId" binding:"required"`
	Updates UserUpdateInput `json:"updates"`
}

// UserUpdateInput lists the profile fields an administrator may change.
// There is no password field.
type UserUpdateInput struct {
	FullName    *string `json:"fullName"`
	Username    *string `json:"username"`
	CollegeName *string `json:"collegeName"`
	Mobile      *string `json:"mobile"`
	Verified    *bool   `json:"verified"`
}

type SetVerifiedRequest struct {
	Verified *bool `json:"verified"`
}

type AdminOpportunityUpdateRequest struct {
	OpportunityID string                 `json:"opportunityId" binding:"required"`
	Updates       OpportunityUpdateInput `json:"updates"`
}

type OpportunityUpdateInput struct {
	Title       *string `json:"title"`
	Company     *string `json:"company"`
	Type        *string `json:"type"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
	Featured    *bool   `json:"featured"`
}
