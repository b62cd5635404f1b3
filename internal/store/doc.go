// Package store persists annotation service responses and pronunciation
// dictionaries in a SQLite database.
package store
