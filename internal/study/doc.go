// Package study implements the flashcard review loop: a deck filtered by
// collection and sub-collection, a pointer that wraps in both directions,
// card flipping, shuffling and skip bookkeeping.
package study
