// Package domain models hydrological field-visit discharge measurements as
// they flow from the field-visit loader into report rows.
//
// # Data Source
//
// Each source message describes one discharge measurement taken during a
// visit to a monitoring station. The upstream loader extracts the measurement
// from the field-data system and publishes it as JSON (see
// [RawFieldVisitRecord]). Decimal values are carried as exact decimals end to
// end; they are never converted to float64.
//
// # Quality Grades
//
// The hydrographer grades each measurement. The grade sets a symmetric error
// envelope around the measured discharge:
//
//	EXCELLENT  ±2%
//	GOOD       ±5%
//	FAIR       ±8%
//	POOR       ±10%
//
// errorMax = discharge + discharge*pct and errorMin = discharge - discharge*pct.
//
// Unrecognised, empty, or null grade labels are treated as POOR rather than
// rejected (see [GradeFromName]). Matching is case-sensitive, so "Good"
// resolves to POOR as well.
//
// # Shifts
//
// A shift is the gage-height correction that reconciles the measured
// discharge with the station's rating curve. The loader supplies three gage
// heights read off the rating at errorMax, discharge, and errorMin; each shift
// is that reading minus the mean gage height observed during the measurement:
//
//	shiftBoundaries[0] - meanGageHeight -> errorMaxShiftInFeet
//	shiftBoundaries[1] - meanGageHeight -> shiftInFeet
//	shiftBoundaries[2] - meanGageHeight -> errorMinShiftInFeet
//
// The order is positional. Null entries leave the matching shift unset, which
// is reported as null rather than zero.
//
// # Timestamps
//
// Start dates are either zoned (RFC 3339) or floating wall-clock readings with
// no offset. Both are emitted in the form they arrived in (see [Timestamp]).
package domain
