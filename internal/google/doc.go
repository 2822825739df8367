// Package google handles OAuth2 authorization against Google for the
// configured accounts. It loads the OAuth client from a Google client-secret
// JSON file, stores one token file per account, and refreshes tokens
// transparently, persisting refreshed tokens back to disk.
package google
