// Package schedule parses job schedule descriptions and projects them onto a
// bounded future window for the dashboard timeline.
//
// # Schedule formats
//
// A schedule string is one of three kinds:
//
//   - One-shot: "at 2025-03-01T09:00:00Z" or a bare RFC3339 timestamp.
//   - Interval: "every 30m", a bare Go duration like "2h30m", or the compact
//     HH:MM form where "00:50" means every 50 minutes.
//   - Cron: "cron */15 * * * *" or a bare 5-field expression. Descriptors
//     ("@hourly", "@daily", "@weekly", "@every 55m") normalize to intervals.
//
// # Projection
//
// Project turns a parsed schedule plus an anchor timestamp into the list of
// upcoming run times inside [now, now+horizon), capped at MaxOccurrences.
//
// Cron expressions are deliberately NOT evaluated with full cron semantics.
// The projector infers a single repeat interval from the shape of the
// expression (see the rule table in project.go) and steps from the anchor.
// The timeline trades exactness for a simple, always-terminating
// approximation; replacing it with a real cron evaluator would change
// dashboard output and is out of scope on purpose.
package schedule
