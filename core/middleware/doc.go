// Package middleware groups the Fiber middleware shared by every feature.
//
// rayid tags each request with an X-Ray-ID (kept from the caller when sent)
// and auth guards the API with a static key. The server installs rayid first
// so rejected requests are still traceable in the logs.
package middleware
