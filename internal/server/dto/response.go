package dto

import "net/http"

// --- Common Responses ---

// OkResponse is a simple success response.
type OkResponse struct {
	Ok bool `json:"ok"`
}

// EmptyResponse is answered with 204 No Content and no body.
type EmptyResponse struct{}

// StatusCode implements the handler wrapper's status override.
func (*EmptyResponse) StatusCode() int {
	return http.StatusNoContent
}

// HealthResponse is a response from the health check.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Revision  string `json:"revision,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
}

// --- Auth Responses ---

// AccountResponse is the API representation of an operator account.
type AccountResponse struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
}

// LoginResponse is a response from logging in.
type LoginResponse struct {
	Token   string           `json:"token"`
	Account *AccountResponse `json:"account"`
}

// LogoutResponse is a response from logging out.
type LogoutResponse = OkResponse

// --- User Responses ---

// UserResponse is the API representation of a user record.
type UserResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role,omitempty"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// CreatedUserResponse is a user answered with 201 Created.
type CreatedUserResponse struct {
	UserResponse
}

// StatusCode implements the handler wrapper's status override.
func (*CreatedUserResponse) StatusCode() int {
	return http.StatusCreated
}

// ListUsersResponse is one page of users.
type ListUsersResponse struct {
	Data  []UserResponse `json:"data"`
	Total int            `json:"total"`
}

// --- Product Responses ---

// ProductResponse is the API representation of a product record.
type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    *string `json:"category,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// CreatedProductResponse is a product answered with 201 Created.
type CreatedProductResponse struct {
	ProductResponse
}

// StatusCode implements the handler wrapper's status override.
func (*CreatedProductResponse) StatusCode() int {
	return http.StatusCreated
}

// ListProductsResponse is one page of products.
type ListProductsResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int               `json:"total"`
}

// --- Dashboard Responses ---

// ChartPoint is one labelled value of a chart series.
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DashboardResponse holds the dashboard KPIs and chart series.
type DashboardResponse struct {
	TotalUsers         int               `json:"totalUsers"`
	TotalProducts      int               `json:"totalProducts"`
	Revenue            float64           `json:"revenue"`
	CategoryCount      int               `json:"categoryCount"`
	UsersByRole        []ChartPoint      `json:"usersByRole"`
	ProductsByCategory []ChartPoint      `json:"productsByCategory"`
	RecentProducts     []ProductResponse `json:"recentProducts"`
	Signups            []ChartPoint      `json:"signups"`
	RevenueTrend       []ChartPoint      `json:"revenueTrend"`
}

// --- Schema Responses ---

// ColumnResponse describes one column of a record kind.
type ColumnResponse struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
}

// GetSchemaResponse lists the columns of a record kind.
type GetSchemaResponse struct {
	Kind    string           `json:"kind"`
	Columns []ColumnResponse `json:"columns"`
}
