// Package devdocs downloads development reference documents listed in a
// docs.json manifest into a local docs directory.
package devdocs
