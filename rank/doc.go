// Package rank keeps the manual order_position of a collection dense while
// members are moved.
//
// A move shifts the members between the old and new position by one and then
// writes the moved member's new position. Stores that implement [Transactor]
// get both writes in one transaction. Other stores can be left half-moved; the
// [PartialError] returned in that case names the phase that failed and must be
// repaired by an operator, never retried blindly.
package rank
