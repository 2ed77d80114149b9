// Package main provides the entry point of the catalog service.
// It serves a public storefront and a REST API for products and site
// settings using the Fiber framework. Admin operations are protected by
// a bearer token; product images are stored on disk and served statically.
// Records are kept through gorm (SQLite, MySQL, PostgreSQL) or MongoDB.
package main
