// Package engine provides the dork catalog, the ordered per-category result
// set and the generation coordinator.
package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Category groups a batch of dorks. It is either a catalog interest, a
// filter label such as "Domain: example.com", or CustomCategory.
type Category string

// CustomCategory is the fixed label for dorks built from user keywords and
// operators.
const CustomCategory Category = "Custom Dorks"

// DefaultBatchSize is the number of dorks requested per category.
const DefaultBatchSize = 5

// Catalog lists the selectable interests, in menu order (1-based on screen).
var Catalog = []Category{
	"Finding Sensitive Information for Files",
	"Finding Login Portals and Admin Panels",
	"Finding Geo-Location Information",
	"Finding Related Websites",
	"Finding Specific Files",
	"Finding Specific Directories",
	"Finding Specific Files with Specific Keywords",
	"Finding Subdomains",
	"Finding Vulnerabilities",
	"Finding Emails",
	"Finding WordPress Vulnerabilities",
	"Finding Cloud Storage Files",
	"Finding Open Cameras and Webcams",
	"Finding FTP Servers",
	"Finding Index of Public Files",
}

// Error kinds shared by the session, the coordinator and the console.
var (
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrAlreadySelected = errors.New("already selected")
	ErrInvalidInput    = errors.New("invalid input")
	ErrGeneration      = errors.New("generation failed")
)

// CategoryError is a generation failure for one category. It matches both
// ErrGeneration and the underlying cause.
type CategoryError struct {
	Category Category
	Err      error
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("generate %q: %v", e.Category, e.Err)
}

// Unwrap exposes ErrGeneration and the cause to errors.Is / errors.As.
func (e *CategoryError) Unwrap() []error {
	return []error{ErrGeneration, e.Err}
}

// --------------------------------------------------------------------------
// Results
// --------------------------------------------------------------------------

// Results maps categories to their dorks, remembering the order in which
// categories were first written. Set replaces a category's dorks in place.
// The zero value is ready to use.
type Results struct {
	order []Category
	dorks map[Category][]string
}

// NewResults returns an empty result set.
func NewResults() *Results {
	return &Results{}
}

// Set replaces the dorks stored for cat. A category written before keeps
// its original position.
func (r *Results) Set(cat Category, dorks []string) {
	if r.dorks == nil {
		r.dorks = make(map[Category][]string)
	}
	if _, ok := r.dorks[cat]; !ok {
		r.order = append(r.order, cat)
	}
	cp := make([]string, len(dorks))
	copy(cp, dorks)
	r.dorks[cat] = cp
}

// Get returns a copy of the dorks for cat.
func (r *Results) Get(cat Category) ([]string, bool) {
	d, ok := r.dorks[cat]
	if !ok {
		return nil, false
	}
	cp := make([]string, len(d))
	copy(cp, d)
	return cp, true
}

// Categories returns the categories in first-write order.
func (r *Results) Categories() []Category {
	cp := make([]Category, len(r.order))
	copy(cp, r.order)
	return cp
}

// Len returns the number of categories.
func (r *Results) Len() int {
	return len(r.order)
}

// Total returns the number of dorks across every category.
func (r *Results) Total() int {
	n := 0
	for _, d := range r.dorks {
		n += len(d)
	}
	return n
}

// Clear removes every category.
func (r *Results) Clear() {
	r.order = nil
	r.dorks = nil
}

// Clone returns an independent copy.
func (r *Results) Clone() *Results {
	c := NewResults()
	for _, cat := range r.order {
		c.Set(cat, r.dorks[cat])
	}
	return c
}

// MarshalJSON encodes the results as an object whose keys follow category
// order.
func (r *Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(cat))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.dorks[cat])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
