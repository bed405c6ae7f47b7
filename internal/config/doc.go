// Package config manages vb configuration stored in the repository.
//
// It handles:
//   - The default virtual branch receiving unassigned hunks
//   - Whether `vb status` assigns unowned hunks automatically
package config
