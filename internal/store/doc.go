// Package store is the SQLite persistence facade for collections,
// sub-collections and cards, including JSON export and import.
package store
