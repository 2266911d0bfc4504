// Package kest computes the Austrian capital gains figures of the E1kv form
// (Kennzahlen 994 and 892) for shares received as equity compensation and
// later sold through a brokerage account.
//
// The core functionalities include:
//   - Rate Table: daily EUR per USD reference rates, looked up with the
//     "last published rate on or before the day" rule.
//   - Events: award lapses (acquisitions at fair market value) and sells,
//     normalized to EUR with the rate of their day.
//   - Engine: the moving average cost basis (PMAVG) state machine that
//     processes events in date order and emits one audit record per event.
//   - Summary: the partition of realized profits and losses into the two
//     reportable totals.
//
// Parsing broker exports, fetching rates and rendering the audit live in the
// schwab, frankfurter and renderer packages; this package has no I/O.
package kest
