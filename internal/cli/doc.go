// Package cli provides the cobra commands of vb.
//
// Commands are thin: they parse flags, build a runtime.Context and hand
// off to the actions package.
package cli
