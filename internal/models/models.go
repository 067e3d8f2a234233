package models

import (
	"strings"
	"time"
)

const (
	// Institution is printed on every card.
	Institution = "Example State University"
	// EmailDomain is a reserved (RFC 2606) domain; no address built on it can be delivered.
	EmailDomain = "student.example"
	// PlaceholderEmail is shown while a record is being generated.
	PlaceholderEmail = "..."
	// TemplateKey is the singleton key of the custom background.
	TemplateKey = "user_template"
)

// Gender as reported by the text model.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// ParseGender is case-insensitive; anything other than "female" is treated as [Male].
func ParseGender(s string) Gender {
	if strings.EqualFold(strings.TrimSpace(s), string(Female)) {
		return Female
	}
	return Male
}

// CardRecord is one identity rendered onto a card.
type CardRecord struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IDNumber  string `json:"idNumber"`
	Major     string `json:"major"`
	Email     string `json:"email"`
	Photo     []byte `json:"-"` // encoded PNG or JPEG; nil when absent
}

// FullName joins the non-empty name parts with a single space. It is the ledger key.
func (c CardRecord) FullName() string {
	return FullName(c.FirstName, c.LastName)
}

// HasPhoto reports whether a portrait is attached.
func (c CardRecord) HasPhoto() bool { return len(c.Photo) > 0 }

// IsEmpty reports whether no field has been filled in.
func (c CardRecord) IsEmpty() bool {
	return c.FirstName == "" && c.LastName == "" && c.IDNumber == "" && c.Major == "" && c.Email == "" && !c.HasPhoto()
}

// FullName joins first and last name, dropping empty parts.
func FullName(first, last string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{first, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Details is the text model's structured answer.
type Details struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	IDNumber  string `json:"idNumber"`
	Major     string `json:"major"`
}

// FullName of the generated identity.
func (d Details) FullName() string { return FullName(d.FirstName, d.LastName) }

// LedgerEntry records a full name that must not be generated again.
type LedgerEntry struct {
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// TemplateAsset is the custom card background.
type TemplateAsset struct {
	Data      []byte
	UpdatedAt time.Time
}
