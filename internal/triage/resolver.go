package triage

import "strings"

// Sentinel values returned when lookup data is absent. Never surfaced as
// errors to the caller.
const (
	DefaultSpecialist  = "Khoa Nội tổng hợp"
	DefaultDescription = "Hiện chưa có mô tả cho bệnh này."
	ErrorDescription   = "Lỗi mô tả."
)

// Resolver provides the two independently-defaulting static lookups:
// disease → specialist and disease → description. Both tables are loaded
// from artifacts at startup and immutable thereafter.
type Resolver struct {
	specialists  map[string]string
	descriptions map[string]string
}

// NewResolver builds a resolver from the two lookup tables. Keys are
// trimmed; either map may be nil.
func NewResolver(specialists, descriptions map[string]string) *Resolver {
	r := &Resolver{
		specialists:  make(map[string]string, len(specialists)),
		descriptions: make(map[string]string, len(descriptions)),
	}
	for k, v := range specialists {
		r.specialists[strings.TrimSpace(k)] = v
	}
	for k, v := range descriptions {
		r.descriptions[strings.TrimSpace(k)] = v
	}
	return r
}

// Specialist returns the treating specialty for a disease, or the general
// internal medicine bucket when unmapped.
func (r *Resolver) Specialist(disease string) string {
	if s, ok := r.specialists[strings.TrimSpace(disease)]; ok && s != "" {
		return s
	}
	return DefaultSpecialist
}

// Description returns the disease description, the no-description sentinel
// when absent, or the lookup-error sentinel when the stored row is blank.
func (r *Resolver) Description(disease string) string {
	d, ok := r.descriptions[strings.TrimSpace(disease)]
	if !ok {
		return DefaultDescription
	}
	if d == "" {
		return ErrorDescription
	}
	return d
}

// Specialists returns the specialist table for persistence.
func (r *Resolver) Specialists() map[string]string { return r.specialists }

// Descriptions returns the description table for persistence.
func (r *Resolver) Descriptions() map[string]string { return r.descriptions }
