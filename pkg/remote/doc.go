// Package remote fetches schedules and images referenced by URL.
//
// [Client] performs cached GET requests with retry on network errors, 5xx
// and 429 responses. Bodies are cached through [httputil.Cache] so the CLI
// reuses a file cache and the server shares Redis.
//
// [Images] resolves the image URLs a style can carry and implements
// [sink.ImageSource] for the PNG sink:
//
//   - http(s):// through the Client
//   - file:// from the local filesystem (what [upload.LocalUploader] returns)
//   - preview:// through a lookup, normally [editor.Session.PreviewImage]
//
// Fetch failures are recoverable: callers keep their last good schedule and
// render without the failing image.
package remote
