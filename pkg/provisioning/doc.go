// Package provisioning turns stored content records into client-ready
// presentation objects.
//
// A record is fetched together with its content type, its physical location
// is probed for a byte size on a best-effort basis, the location is signed
// with a short-lived expiry, and the record is handed to the presenter
// registered for its content type. Repositories (memory, Postgres), size
// probers (filesystem, S3, Redis cache) and metrics are provided under
// subpackages.
//
// Supported Content Types
//
// The default registry knows exactly pdf, image, video, link and text. Names
// are matched exactly; any other name, including case or whitespace variants,
// is reported as an UnsupportedTypeError.
package provisioning
