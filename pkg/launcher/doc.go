// Package launcher recognizes installed third-party launcher applications by
// filesystem signature.
//
// Each supported launcher kind is one row in a closed detection table: a
// marker configuration file, an instances (or profiles) container directory,
// and the mods subpath used inside an instance. That table is the engine's
// entire contract with the on-disk layouts owned by the launchers; adding a
// launcher means adding a row, not a subclass.
package launcher
