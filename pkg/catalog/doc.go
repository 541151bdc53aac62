// Package catalog enumerates the instances inside a launcher installation
// and reads their mod inventories.
//
// Enumeration is tolerant by design: an instance directory that is missing,
// unreadable or carries malformed metadata is skipped with a warning, never
// failing the listing of its siblings. Inventories identify mods from their
// filenames only; no jar is ever opened.
package catalog
