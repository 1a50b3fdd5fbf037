package request

// ProductFilterRequest represents product search parameters
type ProductFilterRequest struct {
	Search string `form:"search"`
}
