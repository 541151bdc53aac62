// Package types defines the core data model shared by every engine package:
// launcher installations, instances, mod files, modpack manifests, update
// plans and sync results.
//
// Everything here is plain data. Discovery fills it in, the planner
// partitions it, the executor mutates the filesystem to match it. Keeping the
// model free of behavior is what lets the planner stay a pure function.
package types
