// Package resolve maps parsed course references onto persisted colleges and locations.
//
// College codes resolve by exact match against the seeded colleges and fall back to the
// default college. Building names resolve by case-insensitive substring match against
// location names; no match leaves the course without a location. Neither case is an error.
package resolve
