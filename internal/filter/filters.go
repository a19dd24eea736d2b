// Package filter holds the paging window shared by the list endpoints.
package filter

import "github.com/siahsang/devconnector/internal/validator"

// Lists are small, so the default window covers the whole collection.
const (
	DefaultLimit = 1000
	MaxLimit     = 1000
	MaxOffset    = 10_000_000
)

type Filter struct {
	Limit  int64
	Offset int64
}

func NewFilter(limit, offset int64) Filter {
	return Filter{
		Limit:  limit,
		Offset: offset,
	}
}

// All is the window used when the caller gave no paging parameters.
func All() Filter {
	return NewFilter(DefaultLimit, 0)
}

func (f Filter) Validate(v *validator.Validator) {
	v.Check(f.Limit > 0, "limit", "must be greater than 0")
	v.Check(f.Limit <= MaxLimit, "limit", "must be a maximum of 1000")
	v.Check(f.Offset >= 0, "offset", "must be greater than or equal to 0")
	v.Check(f.Offset <= MaxOffset, "offset", "must be a maximum of 10000000")
}

// Window returns the bounds of f over a list of n items, clamped so that
// items[start:end] is always valid.
func (f Filter) Window(n int) (start, end int) {
	start = int(min(max(f.Offset, 0), int64(n)))
	end = n
	if f.Limit > 0 && int64(start)+f.Limit < int64(n) {
		end = start + int(f.Limit)
	}
	return start, end
}
