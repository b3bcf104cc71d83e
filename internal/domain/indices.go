package domain

import "sort"

// Canonical index names used as DerivedIndices keys. The delegate reports
// whichever subset it could compute; everything else stays absent.
const (
	IndexCAPE   = "cape"    // surface-based CAPE, J/kg
	IndexMLCAPE = "ml_cape" // mixed-layer CAPE, J/kg
	IndexMUCAPE = "mu_cape" // most-unstable CAPE, J/kg
	IndexCIN    = "cin"     // surface-based CIN, J/kg
	IndexMLCIN  = "ml_cin"
	IndexMUCIN  = "mu_cin"
	IndexLCL    = "lcl" // lifted condensation level, m AGL
	IndexMLLCL  = "ml_lcl"
	IndexMULCL  = "mu_lcl"
	IndexLFC    = "lfc" // level of free convection, m AGL
	IndexEL     = "el"  // equilibrium level, m AGL

	IndexShear01km = "shear_0_1km" // bulk shear magnitude, kt
	IndexShear03km = "shear_0_3km"
	IndexShear06km = "shear_0_6km"
	IndexSRH01km   = "srh_0_1km" // storm-relative helicity, m²/s²
	IndexSRH03km   = "srh_0_3km"

	IndexSTP         = "stp" // significant tornado parameter, dimensionless
	IndexSCP         = "scp" // supercell composite parameter, dimensionless
	IndexLiftedIndex = "lifted_index"
	IndexKIndex      = "k_index"
	IndexTotalTotals = "total_totals"
	IndexPWAT        = "pwat" // precipitable water, mm

	IndexLapseRate03km    = "lapse_rate_0_3km"     // °C/km
	IndexLapseRate700_500 = "lapse_rate_700_500mb" // °C/km
)

// coreIndices are the indices a complete analysis is expected to produce.
// Report.Missing lists whichever of these the delegate did not return.
var coreIndices = []string{
	IndexCAPE,
	IndexCIN,
	IndexLCL,
	IndexLFC,
	IndexEL,
	IndexSTP,
	IndexSCP,
	IndexShear06km,
	IndexLapseRate03km,
}

// IndexValue is one computed parameter with its unit.
type IndexValue struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// DerivedIndices maps canonical index names to computed values. Produced once
// per profile by the analysis delegate; treat as immutable after creation.
// A missing key means the index could not be computed — it is never zero-filled.
type DerivedIndices map[string]IndexValue

// NewDerivedIndices copies the given mapping so later mutation of the source
// cannot leak into an already-built result.
func NewDerivedIndices(values map[string]IndexValue) DerivedIndices {
	out := make(DerivedIndices, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

// Value returns the numeric value for name and whether it is present.
func (d DerivedIndices) Value(name string) (float64, bool) {
	v, ok := d[name]
	return v.Value, ok
}

// MissingCore returns the sorted core index names absent from the mapping.
func (d DerivedIndices) MissingCore() []string {
	var missing []string
	for _, name := range coreIndices {
		if _, ok := d[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
