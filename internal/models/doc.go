// Package models defines the core domain entities for the settlement engine.
//
// # Entities
//
//   - User: a registered person, identified by phone number
//   - Group: a shared expense with a total amount and a creator
//   - Participant: one user's membership and owed share within a group
//   - Payment: an append-only record of a self-reported payment
//
// # Design Principles
//
//  1. **Current state vs history**: Participant carries the current payment
//     state of a (group, user) pair; Payment rows are the historical log.
//     Both are written together so neither can exist without the other.
//  2. **Decimal money**: all amounts are decimal.Decimal, never floats.
//     Equal splits are plain division with no remainder redistribution,
//     so per-group share sums may carry a small rounding residue.
//  3. **Avoid circular references**: relationships use ID strings, not
//     pointers.
package models
