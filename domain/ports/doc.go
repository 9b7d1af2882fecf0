// Package ports defines the interfaces the host layer depends on.
// Domain logic depends on these abstractions and the application and
// infrastructure packages implement them.
package ports
