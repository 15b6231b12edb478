package dto

// --- Health ---

// HealthRequest is a request to check server health.
type HealthRequest struct{}

// Validate is a no-op for HealthRequest.
func (r *HealthRequest) Validate() error {
	return nil
}

// --- Auth ---

// LoginRequest is a request to log in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login request fields.
func (r *LoginRequest) Validate() error {
	if blank(r.Email) {
		return MissingField("email")
	}
	if r.Password == "" {
		return MissingField("password")
	}
	return nil
}

// LogoutRequest is a request to revoke the current session.
type LogoutRequest struct{}

// Validate is a no-op for LogoutRequest.
func (r *LogoutRequest) Validate() error {
	return nil
}

// GetMeRequest is a request to get current account info.
type GetMeRequest struct{}

// Validate is a no-op for GetMeRequest.
func (r *GetMeRequest) Validate() error {
	return nil
}

// --- Lists ---

// ListParams holds the pagination and search query parameters. Page and
// Limit are kept as text so malformed values fall back to defaults instead of
// failing the request.
type ListParams struct {
	Page   string `query:"page"`
	Limit  string `query:"limit"`
	Search string `query:"search"`
}

// --- Users ---

// ListUsersRequest is a request to list users.
type ListUsersRequest struct {
	ListParams
}

// Validate is a no-op for ListUsersRequest.
func (r *ListUsersRequest) Validate() error {
	return nil
}

// GetUserRequest is a request to get a user.
type GetUserRequest struct {
	ID string `path:"id"`
}

// Validate validates the get user request fields.
func (r *GetUserRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// CreateUserRequest is a request to create a user.
type CreateUserRequest struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  *UserRole `json:"role,omitempty"`
}

// Validate validates the create user request fields.
func (r *CreateUserRequest) Validate() error {
	if err := validateName(r.Name); err != nil {
		return err
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return validateRole(r.Role)
}

// UpdateUserRequest is a request to update a user. Absent fields are left
// unchanged; an empty role clears it.
type UpdateUserRequest struct {
	ID    string    `path:"id" json:"-"`
	Name  *string   `json:"name,omitempty"`
	Email *string   `json:"email,omitempty"`
	Role  *UserRole `json:"role,omitempty"`
}

// Validate checks the path. The body is checked by ValidateFields once the
// user is known to exist.
func (r *UpdateUserRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// ValidateFields validates the fields present in the body.
func (r *UpdateUserRequest) ValidateFields() error {
	if r.Name != nil {
		if err := validateName(*r.Name); err != nil {
			return err
		}
	}
	if r.Email != nil {
		if err := validateEmail(*r.Email); err != nil {
			return err
		}
	}
	return validateRole(r.Role)
}

// DeleteUserRequest is a request to delete a user.
type DeleteUserRequest struct {
	ID string `path:"id"`
}

// Validate validates the delete user request fields.
func (r *DeleteUserRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// --- Products ---

// ListProductsRequest is a request to list products.
type ListProductsRequest struct {
	ListParams
}

// Validate is a no-op for ListProductsRequest.
func (r *ListProductsRequest) Validate() error {
	return nil
}

// GetProductRequest is a request to get a product.
type GetProductRequest struct {
	ID string `path:"id"`
}

// Validate validates the get product request fields.
func (r *GetProductRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// CreateProductRequest is a request to create a product.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       *Price  `json:"price"`
	Category    *string `json:"category,omitempty"`
}

// Validate validates the create product request fields.
func (r *CreateProductRequest) Validate() error {
	if err := validateName(r.Name); err != nil {
		return err
	}
	return validatePrice(r.Price)
}

// UpdateProductRequest is a request to update a product. Absent fields are
// left unchanged; a blank description or category is stored as "".
type UpdateProductRequest struct {
	ID          string  `path:"id" json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *Price  `json:"price,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// Validate checks the path. The body is checked by ValidateFields once the
// product is known to exist.
func (r *UpdateProductRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// ValidateFields validates the fields present in the body.
func (r *UpdateProductRequest) ValidateFields() error {
	if r.Name != nil {
		if err := validateName(*r.Name); err != nil {
			return err
		}
	}
	if r.Price != nil {
		return validatePrice(r.Price)
	}
	return nil
}

// DeleteProductRequest is a request to delete a product.
type DeleteProductRequest struct {
	ID string `path:"id"`
}

// Validate validates the delete product request fields.
func (r *DeleteProductRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// --- Dashboard ---

// DashboardRequest is a request for the dashboard aggregates.
type DashboardRequest struct{}

// Validate is a no-op for DashboardRequest.
func (r *DashboardRequest) Validate() error {
	return nil
}

// --- Schema ---

// GetSchemaRequest is a request for the columns of a record kind.
type GetSchemaRequest struct {
	Kind string `path:"kind"`
}

// Validate validates the get schema request fields.
func (r *GetSchemaRequest) Validate() error {
	if r.Kind == "" {
		return MissingField("kind")
	}
	return nil
}
