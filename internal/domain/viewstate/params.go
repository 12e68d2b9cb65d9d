// Package viewstate keeps user-selectable view parameters consistent with
// shareable URL query parameters. Every transition is a pure function from
// (params, input) to new params; callers own the actual URL or transport.
package viewstate

import (
	"net/url"
	"sort"
	"strings"

	"github.com/respiview/respiview/internal/domain/registry"
)

// Well-known parameter names shared across datasets.
const (
	ParamView      = "view"
	ParamLocation  = "location"
	ParamScale     = "scale"
	ParamIntervals = "intervals"
	ParamLegend    = "legend"
)

// listSeparator joins list-valued parameters. Identifiers must not contain
// commas; no escaping is applied.
const listSeparator = ","

// Params is a flat set of query parameters. Each key holds a single value;
// list-valued parameters are comma-joined.
type Params map[string]string

// ParseQuery decodes a raw query string. Malformed input never errors: pairs
// that fail to decode are skipped and repeated keys keep the first value.
func ParseQuery(raw string) Params {
	p := Params{}
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return p
	}
	for key, vals := range values {
		if len(vals) > 0 && vals[0] != "" {
			p[key] = vals[0]
		}
	}
	return p
}

// Get returns the value for key, or "" when absent.
func (p Params) Get(key string) string {
	return p[key]
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Set stores value under key; an empty value removes the key to keep URLs
// minimal.
func (p Params) Set(key, value string) {
	if value == "" {
		delete(p, key)
		return
	}
	p[key] = value
}

// Del removes key.
func (p Params) Del(key string) {
	delete(p, key)
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Equal reports whether two parameter sets hold identical pairs.
func (p Params) Equal(other Params) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		if other[k] != v {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no parameters are set.
func (p Params) IsEmpty() bool {
	return len(p) == 0
}

// Encode renders a canonical query string with keys in sorted order, so the
// same state always produces the same shareable link.
func (p Params) Encode() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[k]))
	}
	return b.String()
}

// splitList splits a comma-joined parameter value. Absent or empty input
// yields an empty slice, never nil semantics for callers.
func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, listSeparator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// joinList joins values with the list separator.
func joinList(values []string) string {
	return strings.Join(values, listSeparator)
}

// View returns the view parameter, or the registry default when absent or
// unknown.
func View(p Params, reg *registry.Registry) string {
	v := p.Get(ParamView)
	if v == "" || reg.ByView(v) == nil {
		return reg.DefaultView()
	}
	return v
}

// Location returns the location parameter or the global default.
func Location(p Params) string {
	if loc := p.Get(ParamLocation); loc != "" {
		return loc
	}
	return registry.GlobalDefaultLocation
}

// EffectiveLocation returns the location parameter or the dataset's default.
func EffectiveLocation(p Params, ds *registry.Dataset) string {
	if loc := p.Get(ParamLocation); loc != "" {
		return loc
	}
	if ds != nil && ds.DefaultLocation != "" {
		return ds.DefaultLocation
	}
	return registry.GlobalDefaultLocation
}

// SetLocation sets or removes the location parameter. The canonical rule is
// to omit the parameter when it equals the effective default for the current
// dataset, keeping URLs minimal.
func SetLocation(p Params, location, effectiveDefault string) Params {
	out := p.Clone()
	if location == "" || location == effectiveDefault {
		out.Del(ParamLocation)
		return out
	}
	out.Set(ParamLocation, location)
	return out
}

// DatasetParams holds the dataset-namespaced list parameters.
type DatasetParams struct {
	Dates   []string
	Models  []string
	Columns []string
}

// GetDatasetParams reads the dataset's namespaced parameters. Absent
// parameters yield empty lists.
func GetDatasetParams(p Params, ds *registry.Dataset) DatasetParams {
	if ds == nil {
		return DatasetParams{Dates: []string{}, Models: []string{}, Columns: []string{}}
	}
	dp := DatasetParams{
		Dates:   splitList(p.Get(ds.Prefix + "_dates")),
		Models:  splitList(p.Get(ds.Prefix + "_models")),
		Columns: []string{},
	}
	for _, extra := range ds.ExtraParams {
		if strings.HasSuffix(extra, "_columns") {
			dp.Columns = splitList(p.Get(extra))
		}
	}
	return dp
}

// ParamsPatch describes a partial update of dataset-namespaced parameters.
// Nil fields are left untouched; empty non-nil fields remove the parameter.
type ParamsPatch struct {
	Dates   *[]string
	Models  *[]string
	Columns *[]string
}

// DatesPatch builds a patch updating only dates.
func DatesPatch(dates []string) ParamsPatch { return ParamsPatch{Dates: &dates} }

// ModelsPatch builds a patch updating only models.
func ModelsPatch(models []string) ParamsPatch { return ParamsPatch{Models: &models} }

// ColumnsPatch builds a patch updating only columns.
func ColumnsPatch(columns []string) ParamsPatch { return ParamsPatch{Columns: &columns} }

// SetDatasetParams merges only the provided fields into the dataset's
// namespaced parameters, leaving unrelated parameters untouched.
func SetDatasetParams(p Params, ds *registry.Dataset, patch ParamsPatch) Params {
	out := p.Clone()
	if ds == nil {
		return out
	}
	if patch.Dates != nil {
		out.Set(ds.Prefix+"_dates", joinList(*patch.Dates))
	}
	if patch.Models != nil {
		out.Set(ds.Prefix+"_models", joinList(*patch.Models))
	}
	if patch.Columns != nil {
		for _, extra := range ds.ExtraParams {
			if strings.HasSuffix(extra, "_columns") {
				out.Set(extra, joinList(*patch.Columns))
			}
		}
	}
	return out
}
