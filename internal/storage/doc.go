// Package storage is the optional run ledger: one record per snapshot
// generation, for operating the generator itself (did the nightly run work,
// how long did it take, how much did it find). Dashboard data never lives
// here; it is regenerated from scratch on every run.
package storage
