// Package query turns request query parameters into a store filter
// plus pagination, and computes the pagination metadata for listing
// responses.
//
// Parsing here is deliberately permissive, unlike the strict intake
// validation: query parameters are advisory, so junk input silently
// falls back to defaults instead of erroring.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/hackfest-dev/hackathon-api/internal/storage"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PageRequest is the coerced page/limit pair.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset is the number of records skipped before this page.
func (pr PageRequest) Offset() int {
	return (pr.Page - 1) * pr.Limit
}

// Compose reads filter and pagination parameters. tech_stack is a
// comma-separated list expanding to an any-tag membership test;
// degree and year_of_study are exact matches.
func Compose(params url.Values) (storage.Filter, PageRequest) {
	f := storage.Filter{
		Degree:      params.Get("degree"),
		YearOfStudy: params.Get("year_of_study"),
	}
	if raw := params.Get("tech_stack"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.TechStack = append(f.TechStack, tag)
			}
		}
	}

	return f, PageRequest{
		Page:  positiveIntOr(params.Get("page"), DefaultPage),
		Limit: positiveIntOr(params.Get("limit"), DefaultLimit),
	}
}

func positiveIntOr(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// PageLink points at an adjacent page.
type PageLink struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination is the metadata block of a listing response: the current
// page, the total page count, the total matching count, and next/prev
// descriptors present only when those pages exist.
type Pagination struct {
	Current    int       `json:"current"`
	TotalPages int       `json:"total"`
	TotalCount int64     `json:"count"`
	Next       *PageLink `json:"next,omitempty"`
	Prev       *PageLink `json:"prev,omitempty"`
}

// Paginate computes the metadata for a page that returned `returned`
// of `total` matching records.
func Paginate(pr PageRequest, returned int, total int64) Pagination {
	p := Pagination{
		Current:    pr.Page,
		TotalPages: int(math.Ceil(float64(total) / float64(pr.Limit))),
		TotalCount: total,
	}
	if int64(pr.Offset()+returned) < total {
		p.Next = &PageLink{Page: pr.Page + 1, Limit: pr.Limit}
	}
	if pr.Offset() > 0 {
		p.Prev = &PageLink{Page: pr.Page - 1, Limit: pr.Limit}
	}
	return p
}
