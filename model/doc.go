// Package model defines the JSON boundary shapes of resolved parameters and
// interface entries.
//
// These are projections: they carry only what a resolved param.Param keeps,
// so component names below the top level render empty. Re-resolving a
// projection with package param yields the original value.
package model
