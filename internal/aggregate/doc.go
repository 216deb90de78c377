// Package aggregate shapes the student panel into the report tables:
// dense (cohort × bucket) grids with headcount and mean score, their wide
// pivots, and headcount-only distributions. Grids are always complete —
// every cohort and every bucket value appears even with nobody in it.
package aggregate
