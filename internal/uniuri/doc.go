// Package uniuri generates random strings from a fixed alphabet using
// crypto/rand. It names stored upload files and generates product SKUs.
package uniuri
