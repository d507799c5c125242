package ratelimit

import (
	"net/http"
	"strings"
)

// Class groups endpoints that share a per-user quota
type Class string

const (
	ClassRead   Class = "read"   // resolve, filter options, saved builds
	ClassWrite  Class = "write"  // saving and patching builds
	ClassSearch Class = "search" // budget build search
)

// Policy is the quota for one class
type Policy struct {
	Class         Class
	Limit         int64
	WindowSeconds int
	Description   string
}

// Policies maps each class to its quota
type Policies map[Class]Policy

// DefaultPolicies derives read and write quotas from the search quota.
// Searches are the expensive call; reads are cheap snapshot lookups.
func DefaultPolicies(searchesPerMinute int64) Policies {
	return Policies{
		ClassSearch: {
			Class:         ClassSearch,
			Limit:         searchesPerMinute,
			WindowSeconds: 60,
			Description:   "Budget build searches per minute",
		},
		ClassWrite: {
			Class:         ClassWrite,
			Limit:         searchesPerMinute * 2,
			WindowSeconds: 60,
			Description:   "Build saves and edits per minute",
		},
		ClassRead: {
			Class:         ClassRead,
			Limit:         searchesPerMinute * 20,
			WindowSeconds: 60,
			Description:   "Catalog and build reads per minute",
		},
	}
}

// For returns the policy of a class, falling back to the search quota
func (p Policies) For(class Class) Policy {
	if policy, ok := p[class]; ok {
		return policy
	}
	return p[ClassSearch]
}

// Classify maps a request to its quota class
func Classify(method, path string) Class {
	switch {
	case strings.HasSuffix(path, "/builds/search"):
		return ClassSearch
	case method == http.MethodPost || method == http.MethodPatch ||
		method == http.MethodPut || method == http.MethodDelete:
		return ClassWrite
	default:
		return ClassRead
	}
}

// String returns the class name
func (c Class) String() string {
	switch c {
	case ClassRead, ClassWrite, ClassSearch:
		return string(c)
	default:
		return "unknown"
	}
}
