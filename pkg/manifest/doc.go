// Package manifest fetches modpack release manifests from the remote release
// index and turns them into the engine's desired-state representation.
//
// A manifest is fetched fresh for every sync. There is no cache and no stale
// fallback: syncing against outdated data risks installing mods for the
// wrong Minecraft or loader version, so any fetch or parse failure is fatal
// to the sync that needed it.
package manifest
