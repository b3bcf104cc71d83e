// Package domain models atmospheric sounding profiles and the severe weather
// parameters derived from them.
//
// # Data Sources
//
// Sounding profiles come from two places: point extractions of NWP model runs
// (GFS, NAM, RAP, HRRR) fetched over HTTP, and local sounding files in the
// plain whitespace-column format used by the fixture tooling. Either way the
// raw input is a vertical sequence of
//
//	pressure (hPa), height (m), temperature (°C), dewpoint (°C),
//	wind direction (deg), wind speed (kt)
//
// ordered from the surface upward. NewProfile validates the sequence: at
// least two levels, strictly increasing height, strictly decreasing pressure.
// Levels carrying the conventional missing-value sentinel (-9999) are dropped
// before validation.
//
// # Derived Indices
//
// Thermodynamic and kinematic computation is deliberately not implemented
// here. The Analyzer interface is the boundary to an external analysis
// capability (in production, the SHARPpy sidecar service) which returns a
// DerivedIndices map. Index presence is best-effort: an index the delegate
// could not compute is simply absent from the map, never zero-filled.
// The canonical index names and their units are defined in indices.go.
//
// # Reports
//
// BuildReport is the presentation step: it maps DerivedIndices plus optional
// surface observations into a Report with a fixed key set for display
// consumers. Report IDs are deterministic hashes of the request identity so
// replaying the same analysis produces the same ID.
package domain
