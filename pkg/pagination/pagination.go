package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 50
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Skip  int
	Limit int
}

// Page is the list envelope returned to callers.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize clamps skip to zero and the limit to the allowed window.
func (p Params) Normalize() Params {
	if p.Skip < 0 {
		p.Skip = 0
	}
	p.Limit = NormalizeLimit(p.Limit)
	return p
}

// NewPage wraps a slice with the pagination metadata it was fetched with.
func NewPage[T any](items []T, total int64, params Params) Page[T] {
	params = params.Normalize()
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Skip: params.Skip, Limit: params.Limit}
}

// MapPage converts the items of a page while keeping its metadata.
func MapPage[T, U any](page Page[T], convert func([]T) []U) Page[U] {
	items := convert(page.Items)
	if items == nil {
		items = []U{}
	}
	return Page[U]{Items: items, Total: page.Total, Skip: page.Skip, Limit: page.Limit}
}
