// The beeminder package contains a small client for the Beeminder API v1 documented at https://api.beeminder.com.
// It covers what the beeline program in cmd/beeline needs: listing goals and reading, creating, updating and
// deleting datapoints.
//
// Unlike sync-based clients, nothing is kept locally. Every method maps to exactly one HTTP request, authenticated
// with the user's personal auth token, and every failure is reported as a *RemoteError whose Kind tells apart
// authentication, not-found, validation, server and network failures.
//
// Datapoints are created and updated through DatapointPatch values, which only carry the fields that were set.
package beeminder // import "github.com/nicolagi/beeminder"
