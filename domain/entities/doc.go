// Package entities provides the plain data types shared by the boundary, its
// wire format and the host: error details, operation descriptors and module
// manifests.
package entities
