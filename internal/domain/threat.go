package domain

import "fmt"

// Threat levels, ordered from least to most significant.
const (
	ThreatNone     = "none"
	ThreatSlight   = "slight"
	ThreatModerate = "moderate"
	ThreatHigh     = "high"
)

// Threat is the assessment for one hazard category.
type Threat struct {
	Level   string   `json:"level"`
	Factors []string `json:"factors,omitempty"`
}

// ThreatAssessment groups the per-hazard assessments derived from a
// DerivedIndices mapping.
type ThreatAssessment struct {
	Tornado    Threat `json:"tornado"`
	Hail       Threat `json:"hail"`
	Wind       Threat `json:"wind"`
	FlashFlood Threat `json:"flash_flood"`
}

// AssessThreats classifies severe weather potential from computed indices
// using operational rule-of-thumb thresholds. A category whose inputs are
// absent from the mapping stays at ThreatNone — absence of data is never
// treated as absence of risk being elevated.
func AssessThreats(indices DerivedIndices) ThreatAssessment {
	return ThreatAssessment{
		Tornado:    assessTornado(indices),
		Hail:       assessHail(indices),
		Wind:       assessWind(indices),
		FlashFlood: assessFlashFlood(indices),
	}
}

// assessTornado weighs surface CAPE, 0-1km storm-relative helicity, LCL
// height, and 0-1km shear. Low LCLs with strong low-level shear are the
// discriminator between slight and high.
func assessTornado(indices DerivedIndices) Threat {
	cape, hasCAPE := indices.Value(IndexCAPE)
	srh, hasSRH := indices.Value(IndexSRH01km)
	if !hasCAPE || !hasSRH {
		return Threat{Level: ThreatNone}
	}

	lcl, hasLCL := indices.Value(IndexLCL)
	shear, hasShear := indices.Value(IndexShear01km)

	switch {
	case cape > 1000 && srh > 100:
		if hasLCL && hasShear && lcl < 1000 && shear > 20 {
			return Threat{
				Level: ThreatHigh,
				Factors: []string{
					fmt.Sprintf("CAPE: %.0f J/kg (>1000)", cape),
					fmt.Sprintf("0-1km SRH: %.0f m²/s² (>100)", srh),
					fmt.Sprintf("LCL Height: %.0f m (<1000)", lcl),
					fmt.Sprintf("0-1km Shear: %.0f kt (>20)", shear),
				},
			}
		}
		if hasLCL && hasShear && lcl < 1500 && shear > 15 {
			return Threat{
				Level: ThreatModerate,
				Factors: []string{
					fmt.Sprintf("CAPE: %.0f J/kg (>1000)", cape),
					fmt.Sprintf("0-1km SRH: %.0f m²/s² (>100)", srh),
					fmt.Sprintf("LCL Height: %.0f m (<1500)", lcl),
					fmt.Sprintf("0-1km Shear: %.0f kt (>15)", shear),
				},
			}
		}
		return Threat{
			Level: ThreatSlight,
			Factors: []string{
				fmt.Sprintf("CAPE: %.0f J/kg (>1000)", cape),
				fmt.Sprintf("0-1km SRH: %.0f m²/s² (>100)", srh),
			},
		}
	case cape > 500 && srh > 50:
		return Threat{
			Level: ThreatSlight,
			Factors: []string{
				fmt.Sprintf("CAPE: %.0f J/kg (>500)", cape),
				fmt.Sprintf("0-1km SRH: %.0f m²/s² (>50)", srh),
			},
		}
	}
	return Threat{Level: ThreatNone}
}

// assessHail weighs most-unstable CAPE against deep-layer shear.
func assessHail(indices DerivedIndices) Threat {
	mucape, hasCAPE := indices.Value(IndexMUCAPE)
	shear, hasShear := indices.Value(IndexShear06km)
	if !hasCAPE || !hasShear {
		return Threat{Level: ThreatNone}
	}

	switch {
	case mucape > 2000 && shear > 40:
		return Threat{
			Level: ThreatHigh,
			Factors: []string{
				fmt.Sprintf("MUCAPE: %.0f J/kg (>2000)", mucape),
				fmt.Sprintf("0-6km Shear: %.0f kt (>40)", shear),
				"Favorable thermodynamic profile for large hail",
			},
		}
	case mucape > 1500 && shear > 30:
		return Threat{
			Level: ThreatModerate,
			Factors: []string{
				fmt.Sprintf("MUCAPE: %.0f J/kg (>1500)", mucape),
				fmt.Sprintf("0-6km Shear: %.0f kt (>30)", shear),
			},
		}
	case mucape > 1000 && shear > 20:
		return Threat{
			Level: ThreatSlight,
			Factors: []string{
				fmt.Sprintf("MUCAPE: %.0f J/kg (>1000)", mucape),
				fmt.Sprintf("0-6km Shear: %.0f kt (>20)", shear),
			},
		}
	}
	return Threat{Level: ThreatNone}
}

// assessWind weighs mixed-layer CAPE against deep-layer shear. The slight
// tier needs only instability since pulse downbursts occur in weak shear.
func assessWind(indices DerivedIndices) Threat {
	mlcape, hasCAPE := indices.Value(IndexMLCAPE)
	if !hasCAPE {
		return Threat{Level: ThreatNone}
	}
	shear, hasShear := indices.Value(IndexShear06km)

	switch {
	case hasShear && mlcape > 1500 && shear > 30:
		return Threat{
			Level: ThreatHigh,
			Factors: []string{
				fmt.Sprintf("MLCAPE: %.0f J/kg (>1500)", mlcape),
				fmt.Sprintf("0-6km Shear: %.0f kt (>30)", shear),
				"Favorable for organized convection with strong winds",
			},
		}
	case hasShear && mlcape > 1000 && shear > 20:
		return Threat{
			Level: ThreatModerate,
			Factors: []string{
				fmt.Sprintf("MLCAPE: %.0f J/kg (>1000)", mlcape),
				fmt.Sprintf("0-6km Shear: %.0f kt (>20)", shear),
			},
		}
	case mlcape > 500:
		return Threat{
			Level: ThreatSlight,
			Factors: []string{
				fmt.Sprintf("MLCAPE: %.0f J/kg (>500)", mlcape),
			},
		}
	}
	return Threat{Level: ThreatNone}
}

// assessFlashFlood weighs precipitable water against the K-index.
func assessFlashFlood(indices DerivedIndices) Threat {
	pwat, hasPWAT := indices.Value(IndexPWAT)
	kIndex, hasK := indices.Value(IndexKIndex)
	if !hasPWAT || !hasK {
		return Threat{Level: ThreatNone}
	}

	switch {
	case pwat > 50 && kIndex > 35:
		return Threat{
			Level: ThreatHigh,
			Factors: []string{
				fmt.Sprintf("PWAT: %.1f mm (>50mm)", pwat),
				fmt.Sprintf("K-Index: %.1f (>35)", kIndex),
				"Favorable for heavy precipitation",
			},
		}
	case pwat > 40 && kIndex > 30:
		return Threat{
			Level: ThreatModerate,
			Factors: []string{
				fmt.Sprintf("PWAT: %.1f mm (>40mm)", pwat),
				fmt.Sprintf("K-Index: %.1f (>30)", kIndex),
			},
		}
	case pwat > 30 && kIndex > 25:
		return Threat{
			Level: ThreatSlight,
			Factors: []string{
				fmt.Sprintf("PWAT: %.1f mm (>30mm)", pwat),
				fmt.Sprintf("K-Index: %.1f (>25)", kIndex),
			},
		}
	}
	return Threat{Level: ThreatNone}
}
