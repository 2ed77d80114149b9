// Package catalog defines the store contracts shared by the API layer and the
// database backends, the fixed set of site setting types and the error
// taxonomy the API maps to HTTP status codes.
package catalog
