// Package gazetteer resolves free-text governorate and city names against the
// platform's reference data. Merchant spreadsheets spell places loosely, in
// English or Arabic, with or without the "governorate"/"محافظة" decoration,
// so matching is normalization-first with a containment fallback.
package gazetteer

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/wasely/courier-admin/internal/domain/orderimport/order"
)

// Governorate is read-only reference data supplied by the platform API.
type Governorate struct {
	ID     int64  `json:"id"`
	NameEn string `json:"name_en"`
	NameAr string `json:"name_ar"`
}

// City belongs to exactly one governorate.
type City struct {
	ID            int64  `json:"id"`
	GovernorateID int64  `json:"governorate_id"`
	NameEn        string `json:"name_en"`
	NameAr        string `json:"name_ar"`
}

// Resolver matches row place names against the reference lists. City lookup
// is always scoped to the row's resolved governorate, so identical city names
// in different governorates never cross-match.
type Resolver struct {
	governorates []Governorate
	citiesByGov  map[int64][]City
	allNames     []string
}

// NewResolver indexes the reference lists for per-row resolution.
func NewResolver(governorates []Governorate, cities []City) *Resolver {
	r := &Resolver{
		governorates: governorates,
		citiesByGov:  make(map[int64][]City, len(governorates)),
	}
	for _, c := range cities {
		r.citiesByGov[c.GovernorateID] = append(r.citiesByGov[c.GovernorateID], c)
	}
	for _, g := range governorates {
		r.allNames = append(r.allNames, g.NameEn)
	}
	for _, c := range cities {
		r.allNames = append(r.allNames, c.NameEn)
	}
	return r
}

// Normalize folds the spelling variants seen in merchant files: case,
// the English "governorate"/"gov." suffix, the Arabic محافظة prefix/suffix,
// and tā' marbūṭa (ة) to hā' (ه).
func Normalize(s string) string {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimSuffix(v, " governorate")
	v = strings.TrimSuffix(v, " gov.")
	v = strings.TrimSuffix(v, " gov")
	v = strings.TrimPrefix(v, "محافظة ")
	v = strings.TrimSuffix(v, " محافظة")
	v = strings.ReplaceAll(v, "ة", "ه")
	return strings.TrimSpace(v)
}

// ResolveRows annotates rows in place. On success the display text is
// rewritten to the canonical English name and the identifiers are set; on
// failure the row keeps its original free text for manual correction.
func (r *Resolver) ResolveRows(rows []*order.Row) {
	for _, row := range rows {
		r.resolveRow(row)
	}
}

func (r *Resolver) resolveRow(row *order.Row) {
	gov := r.matchGovernorate(row.Governorate)
	if gov == nil {
		// A city cannot be meaningfully resolved without its governorate.
		return
	}
	row.GovernorateID = &gov.ID
	row.Governorate = gov.NameEn

	city := r.matchCity(gov.ID, row.City)
	if city == nil {
		return
	}
	row.CityID = &city.ID
	row.City = city.NameEn
}

// matchGovernorate tries exact normalized matches against every governorate
// first, then substring containment either direction.
func (r *Resolver) matchGovernorate(input string) *Governorate {
	in := Normalize(input)
	if in == "" {
		return nil
	}
	for i := range r.governorates {
		g := &r.governorates[i]
		if in == Normalize(g.NameEn) || in == Normalize(g.NameAr) {
			return g
		}
	}
	for i := range r.governorates {
		g := &r.governorates[i]
		if contains(in, Normalize(g.NameEn)) || contains(in, Normalize(g.NameAr)) {
			return g
		}
	}
	return nil
}

func (r *Resolver) matchCity(governorateID int64, input string) *City {
	in := Normalize(input)
	if in == "" {
		return nil
	}
	cities := r.citiesByGov[governorateID]
	for i := range cities {
		c := &cities[i]
		if in == Normalize(c.NameEn) || in == Normalize(c.NameAr) {
			return c
		}
	}
	for i := range cities {
		c := &cities[i]
		if contains(in, Normalize(c.NameEn)) || contains(in, Normalize(c.NameAr)) {
			return c
		}
	}
	return nil
}

func contains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Suggest returns reference place names ranked by closeness to the input, for
// the manual-correction picker in the preview grid.
func (r *Resolver) Suggest(input string, limit int) []string {
	ranks := fuzzy.RankFindNormalizedFold(Normalize(input), r.allNames)
	sort.Sort(ranks)
	out := make([]string, 0, limit)
	for _, rank := range ranks {
		out = append(out, rank.Target)
		if len(out) >= limit {
			break
		}
	}
	return out
}
