package phi

import (
	"fmt"
	"sort"
	"strings"
)

// Category identifies a class of protected health information.
type Category string

const (
	Email     Category = "EMAIL"
	Phone     Category = "PHONE"
	Date      Category = "DATE"
	RelDate   Category = "REL_DATE"
	MRN       Category = "MRN"
	SSN       Category = "SSN"
	ZIP       Category = "ZIP"
	Address   Category = "ADDRESS"
	Facility  Category = "FACILITY"
	Coord     Category = "COORD"
	URL       Category = "URL"
	Person    Category = "PERSON"
	Insurance Category = "INSURANCE"
	License   Category = "LICENSE"
	Vehicle   Category = "VEHICLE"
	Device    Category = "DEVICE"
	IP        Category = "IP"
)

// All lists every category in report order.
var All = []Category{
	Email, Phone, Date, RelDate, SSN, MRN, ZIP, Person, Facility, Address,
	Coord, URL, Insurance, License, Vehicle, Device, IP,
}

// Priority breaks ties between candidate spans that start at the same offset
// and have the same length. Structured and numeric identifiers outrank the
// dictionary heuristics, which outrank generic addresses. Labeled identifiers
// (member, licence, serial) outrank the bare phone and MRN digit shapes they
// often share a span with.
var Priority = map[Category]int{
	SSN:       100,
	Email:     95,
	URL:       94,
	IP:        93,
	Vehicle:   92,
	Insurance: 91,
	License:   90,
	Device:    89,
	Coord:     88,
	Phone:     86,
	MRN:       80,
	Date:      78,
	ZIP:       76,
	RelDate:   70,
	Person:    60,
	Facility:  55,
	Address:   40,
}

var safeHarbor = map[Category]bool{
	Insurance: true,
	License:   true,
	Vehicle:   true,
	Device:    true,
	IP:        true,
}

// aliases are the lowercase command-line spellings accepted by ParseCategory
// in addition to the canonical names.
var aliases = map[string]Category{
	"email":         Email,
	"phone":         Phone,
	"date":          Date,
	"relative-date": RelDate,
	"relative_date": RelDate,
	"rel-date":      RelDate,
	"ssn":           SSN,
	"mrn":           MRN,
	"zip":           ZIP,
	"person":        Person,
	"facility":      Facility,
	"address":       Address,
	"coordinate":    Coord,
	"coord":         Coord,
	"url":           URL,
	"insurance":     Insurance,
	"license":       License,
	"vehicle":       Vehicle,
	"vin":           Vehicle,
	"device":        Device,
	"ip":            IP,
}

// Token returns the fixed placeholder substituted for spans of c.
func (c Category) Token() string {
	return "[" + string(c) + "]"
}

// SafeHarbor reports whether c is only detected when Safe Harbor mode is on.
func (c Category) SafeHarbor() bool {
	return safeHarbor[c]
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	_, ok := Priority[c]
	return ok
}

// ParseCategory resolves a canonical name ("REL_DATE") or an alias
// ("relative-date"), case-insensitively.
func ParseCategory(s string) (Category, error) {
	trimmed := strings.TrimSpace(s)
	if c := Category(strings.ToUpper(trimmed)); c.Valid() {
		return c, nil
	}
	if c, ok := aliases[strings.ToLower(trimmed)]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Set is an unordered collection of categories.
type Set map[Category]bool

// NewSet builds a Set from the given categories.
func NewSet(cats ...Category) Set {
	s := make(Set, len(cats))
	for _, c := range cats {
		s[c] = true
	}
	return s
}

// ParseSet parses each name with ParseCategory.
func ParseSet(names []string) (Set, error) {
	s := make(Set, len(names))
	for _, n := range names {
		c, err := ParseCategory(n)
		if err != nil {
			return nil, err
		}
		s[c] = true
	}
	return s, nil
}

// Has reports membership. A nil Set contains nothing.
func (s Set) Has(c Category) bool {
	return s[c]
}

// Union returns a new Set holding the members of s and o.
func (s Set) Union(o Set) Set {
	out := make(Set, len(s)+len(o))
	for c := range s {
		out[c] = true
	}
	for c := range o {
		out[c] = true
	}
	return out
}

// Sorted returns the members in report order.
func (s Set) Sorted() []Category {
	out := make([]Category, 0, len(s))
	for _, c := range All {
		if s[c] {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the canonical member names, sorted alphabetically.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return out
}
