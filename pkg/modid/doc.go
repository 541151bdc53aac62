// Package modid derives a canonical (name, version) identity from a raw mod
// filename. Mod files carry no stable unique key, so this fuzzy, exhaustively
// tested string function is the only join key between an instance's inventory
// and a modpack manifest.
package modid
