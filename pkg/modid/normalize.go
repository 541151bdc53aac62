package modid

import (
	"strings"
	"unicode"
)

// Identity is the canonical identity of a mod file.
type Identity struct {
	Name    string
	Version string

	// Ambiguous marks compound filenames that bundle several artifacts under
	// one name (segments joined by '$'). Attributing such a file to a single
	// canonical identity is not safe, so callers must preserve it and surface
	// it for manual resolution instead of matching it against a manifest.
	Ambiguous bool
}

// loaderQualifiers are tokens that qualify a build for a mod loader rather
// than being part of the mod's name. They are only treated as qualifiers when
// a version token follows, so names like "fabric-api" survive intact.
var loaderQualifiers = map[string]bool{
	"fabric":   true,
	"forge":    true,
	"neoforge": true,
	"quilt":    true,
}

// Normalize maps a raw mod filename to its canonical identity.
//
// Two filenames differing only in an embedded version token (and optional
// loader or Minecraft-version qualifiers) normalize to the same name.
// Filenames for distinct mods sharing a prefix stay distinct: "sodium-extra"
// never collapses into "sodium".
func Normalize(rawFilename string) Identity {
	base := strings.ToLower(rawFilename)
	base = strings.TrimSuffix(base, ".disabled")
	base = strings.TrimSuffix(base, ".jar")

	// Compound archives join the bundled artifact names with '$'. The first
	// segment is a provisional identity only; the caller must not act on it.
	if idx := strings.IndexByte(base, '$'); idx >= 0 {
		id := normalizeSimple(base[:idx])
		id.Ambiguous = true
		return id
	}

	return normalizeSimple(base)
}

func normalizeSimple(base string) Identity {
	parts := strings.Split(base, "-")

	nameTokens := 1
	if len(parts) >= 2 && !isVersionToken(parts[1]) {
		// Non-version second token is part of the name ("sodium-extra",
		// "cloth-config"), unless it is a loader qualifier followed by a
		// version ("sodium-fabric-0.5.8").
		if loaderQualifiers[parts[1]] && len(parts) >= 3 && isVersionToken(parts[2]) {
			nameTokens = 1
		} else {
			nameTokens = 2
		}
	}

	name := strings.Join(parts[:nameTokens], "-")
	rest := parts[nameTokens:]

	// No dash-separated version: fall back to '+' and '_' separators
	// ("bocchud+1.2.0", "konkrete_1.9.9").
	if len(rest) == 0 {
		if n, v, ok := splitTrailingVersion(name, '+'); ok {
			return Identity{Name: n, Version: v}
		}
		if n, v, ok := splitTrailingVersion(name, '_'); ok {
			return Identity{Name: n, Version: v}
		}
		return Identity{Name: name}
	}

	// Build metadata after '+' is a qualifier, not a version ("0.4.0+mc1.21.1").
	name = trimPlusQualifier(name)
	return Identity{Name: name, Version: versionFrom(rest)}
}

// versionFrom picks the first version-shaped token, skipping loader
// qualifiers ("fabric-15.0.130" yields "15.0.130"). Trailing qualifiers such
// as the Minecraft version after '+' are dropped.
func versionFrom(tokens []string) string {
	for _, tok := range tokens {
		tok = strings.SplitN(tok, "+", 2)[0]
		if isVersionToken(tok) {
			return strings.TrimPrefix(tok, "v")
		}
	}
	return ""
}

// splitTrailingVersion splits name at the last sep whose trailing segment is
// version-shaped. Names like "chat_heads" stay whole.
func splitTrailingVersion(name string, sep byte) (string, string, bool) {
	idx := strings.LastIndexByte(name, sep)
	if idx <= 0 || idx == len(name)-1 {
		return "", "", false
	}
	tail := name[idx+1:]
	if !isVersionToken(tail) {
		return "", "", false
	}
	version := strings.TrimPrefix(strings.SplitN(tail, "+", 2)[0], "v")
	return name[:idx], version, true
}

func trimPlusQualifier(name string) string {
	return strings.SplitN(name, "+", 2)[0]
}

// isVersionToken reports whether a token looks like a version: digit-leading,
// or a 'v' immediately followed by a digit.
func isVersionToken(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == 'v' && len(s) > 1 && unicode.IsDigit(rune(s[1])) {
		return true
	}
	return unicode.IsDigit(rune(s[0]))
}
