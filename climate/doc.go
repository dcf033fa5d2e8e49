// Package climate builds the dataset behind the June gloom story page.
//
// A build runs three steps in order:
//
//   - Aggregate collapses raw monthly model records into one
//     MonthlyClimatology per month and scenario, converting units on the way
//     (Kelvin to Fahrenheit, Pa to hPa, m/s to mph).
//   - SynthesizeDays lays a 365 day series over the reference year. Days with
//     a real observation take its cloud fractions, every other day is drawn
//     around the historical monthly mean, with the May and June marine layer
//     bias applied to mornings and afternoons.
//   - BuildCities derives per-city summary stats and makes every city share
//     the dataset's day series.
//
// Missing or malformed input never fails a build. Absent months fall back to
// a fixed record and absent collections yield empty output, so the page can
// always render something.
//
// A finished Dataset is never mutated. Reloads build a new one and publish
// it through a Store.
package climate
