package buyers

import "buyer-lead-portal/internal/enummap"

// Query construction for buyer listing and export. The descriptor built
// here is deterministic: the same filters, page and sort always produce
// the same query regardless of which store executes it.

const (
	// DefaultLimit is the page size used when the client supplies none.
	DefaultLimit = 10
	// MaxLimit caps the server-side page size.
	MaxLimit = 100
)

// Filters narrows a buyer listing. Empty fields mean "no constraint".
type Filters struct {
	Search       string
	City         string
	PropertyType string
	Status       string
	Timeline     string
}

// ListQuery is the resolved query descriptor handed to the store.
type ListQuery struct {
	Filters
	Page      int
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// sortColumns whitelists sortable attributes and maps them to columns.
var sortColumns = map[string]string{
	"updatedAt": "updated_at",
	"createdAt": "created_at",
	"fullName":  "full_name",
	"status":    "status",
	"city":      "city",
}

// BuildListQuery coerces paging parameters to positive values, caps the
// limit and resolves the sort attribute against the whitelist.
func BuildListQuery(filters Filters, page, limit int, sortBy, sortOrder string) ListQuery {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	// stores hold canonical enum spellings; accept either form here
	filters.Status = enummap.StatusToCanonical(filters.Status)
	filters.Timeline = enummap.TimelineToCanonical(filters.Timeline)

	if _, ok := sortColumns[sortBy]; !ok {
		sortBy = "updatedAt"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return ListQuery{
		Filters:   filters,
		Page:      page,
		Limit:     limit,
		Offset:    (page - 1) * limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
}

// SortColumn returns the column name backing the sort attribute.
func (q ListQuery) SortColumn() string {
	return sortColumns[q.SortBy]
}

// Pagination describes the page of results returned by a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// BuildPagination derives page metadata from a query and total row count.
func BuildPagination(q ListQuery, total int64) Pagination {
	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return Pagination{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    q.Page < totalPages,
		HasPrev:    q.Page > 1,
	}
}
