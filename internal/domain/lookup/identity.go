package lookup

import (
	"sort"
	"strings"
	"time"
)

// SourceRef identifies one contributing record inside a merged identity
type SourceRef struct {
	Type        SourceType
	ReferenceNo string
}

// CustomerIdentity is the merged, deduplicated view of one physical customer
// across the three stores, keyed by normalized mobile number. Identities are
// built fresh per search call and are not mutated after the merge pass.
type CustomerIdentity struct {
	PrimaryMobile     string
	Name              string
	Sources           []SourceRef
	JobTypeLabel      string
	LatestDate        time.Time
	MergedReferenceNo string

	seen map[SourceRef]struct{}
}

func newCustomerIdentity(rec SourceRecord) *CustomerIdentity {
	identity := &CustomerIdentity{
		PrimaryMobile: rec.Mobile,
		Name:          rec.Name,
		seen:          make(map[SourceRef]struct{}),
	}
	identity.absorb(rec)
	return identity
}

// absorb adds one record to the identity. Adding the same
// (sourceType, referenceNo) pair twice is a no-op, so re-merging a record that
// appeared in two fetch results never duplicates an entry.
func (ci *CustomerIdentity) absorb(rec SourceRecord) {
	ref := SourceRef{Type: rec.Type, ReferenceNo: rec.ReferenceNo}
	if _, dup := ci.seen[ref]; dup {
		return
	}
	ci.seen[ref] = struct{}{}
	ci.Sources = append(ci.Sources, ref)

	if ci.Name == UnknownCustomerName && rec.Name != UnknownCustomerName {
		ci.Name = rec.Name
	}
	if rec.Date.After(ci.LatestDate) {
		ci.LatestDate = rec.Date
	}
	ci.JobTypeLabel = joinTypeLabels(ci.Sources)
	ci.MergedReferenceNo = joinReferenceNos(ci.Sources)
}

// HasSource reports whether the identity already contains the given record
func (ci *CustomerIdentity) HasSource(sourceType SourceType, referenceNo string) bool {
	_, ok := ci.seen[SourceRef{Type: sourceType, ReferenceNo: referenceNo}]
	return ok
}

// joinTypeLabels builds the comma-joined set union of source type tags,
// in first-seen order.
func joinTypeLabels(sources []SourceRef) string {
	var labels []string
	present := make(map[SourceType]struct{})
	for _, ref := range sources {
		if _, ok := present[ref.Type]; ok {
			continue
		}
		present[ref.Type] = struct{}{}
		labels = append(labels, ref.Type.Label())
	}
	return strings.Join(labels, ", ")
}

// joinReferenceNos pipe-joins distinct reference numbers in first-seen order
func joinReferenceNos(sources []SourceRef) string {
	var refs []string
	present := make(map[string]struct{})
	for _, ref := range sources {
		if ref.ReferenceNo == "" {
			continue
		}
		if _, ok := present[ref.ReferenceNo]; ok {
			continue
		}
		present[ref.ReferenceNo] = struct{}{}
		refs = append(refs, ref.ReferenceNo)
	}
	return strings.Join(refs, " | ")
}

// MergeIdentities groups normalized records into customer identities by
// normalized mobile. Records must already be in the engine's stable ingestion
// order (prescriptions, then contact lenses, then orders); the function
// preserves that order for first appearances. Non-mergeable records (no
// usable mobile) are skipped entirely.
//
// The returned list is sorted by LatestDate descending; records with equal
// dates keep their insertion order (stable sort).
func MergeIdentities(records []SourceRecord) []*CustomerIdentity {
	byMobile := make(map[string]*CustomerIdentity)
	var ordered []*CustomerIdentity

	for _, rec := range records {
		if !rec.Mergeable {
			continue
		}
		if identity, ok := byMobile[rec.Mobile]; ok {
			identity.absorb(rec)
			continue
		}
		identity := newCustomerIdentity(rec)
		byMobile[rec.Mobile] = identity
		ordered = append(ordered, identity)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].LatestDate.After(ordered[j].LatestDate)
	})

	return ordered
}
