// Package callerresolver maps the opaque caller credential carried on each
// request to a known platform user. Handlers that mutate state resolve the
// caller first; an empty or unknown credential never reaches a use case.
package callerresolver
