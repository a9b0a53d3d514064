// Package links exposes relation synchronization over HTTP.
//
// Every relation declared in the configuration is served from a relation.Registry.
// Keys in paths and bodies are raw identifiers: numeric strings are integer keys,
// anything else is rejected unless the relation stores string keys.
//
// # HTTP Endpoints
//
//   - GET /relations : lists the declared relations.
//   - GET /relations/:relation/config : effective policy defaults.
//   - DELETE /relations/:relation/config : drops the cached defaults.
//   - GET /relations/:relation/links/:primary : current links of a first side key.
//   - GET /relations/:relation/backlinks/:secondary : current links of a second side key.
//   - PUT /relations/:relation/links/:primary : reconciles the links with {"targets": [...]}.
//   - DELETE /relations/:relation/links/:primary : removes every link (supports ?back_link=true).
//   - POST /relations/:relation/links/:primary/:secondary : links one pair.
//   - DELETE /relations/:relation/links/:primary/:secondary : unlinks one pair.
//
// Write endpoints answer with per-pair outcomes. With ?strict=true a failed pair turns
// the response into a 422.
package links
