// Package utils holds small helpers shared by the quercle client and the
// tool layer: closing response bodies with a logged error, truncating text
// for logs and error messages, and rendering values as JSON.
package utils
