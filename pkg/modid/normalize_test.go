package modid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		filename  string
		name      string
		version   string
		ambiguous bool
	}{
		// Plain name-version shapes.
		{"sodium-0.5.7.jar", "sodium", "0.5.7", false},
		{"sodium-0.5.8.jar", "sodium", "0.5.8", false},
		{"lithium-0.11.2.jar", "lithium", "0.11.2", false},
		{"badoptimizations-2.3.0-1.21.1.jar", "badoptimizations", "2.3.0", false},

		// Multi-word mod names keep their second token: an add-on must never
		// collapse into its parent mod.
		{"sodium-extra-0.6.0.jar", "sodium-extra", "0.6.0", false},
		{"fabric-api-0.100.0+1.21.1.jar", "fabric-api", "0.100.0", false},
		{"cloth-config-fabric-15.0.130-fabric.jar", "cloth-config", "15.0.130", false},
		{"xaeros-minimap-1.2.jar", "xaeros-minimap", "1.2", false},

		// Loader qualifiers between name and version are stripped.
		{"sodium-fabric-0.5.8.jar", "sodium", "0.5.8", false},
		{"jade-neoforge-15.1.4.jar", "jade", "15.1.4", false},
		{"chat_heads-0.14.0-neoforge-1.21.jar", "chat_heads", "0.14.0", false},

		// '+' build metadata and Minecraft-version qualifiers.
		{"bocchud-0.4.0+mc1.21.1.jar", "bocchud", "0.4.0", false},
		{"reinforced-barrels-2.6.1+1.21.1.jar", "reinforced-barrels", "2.6.1", false},
		{"iris+1.7.3.jar", "iris", "1.7.3", false},

		// '_' separated versions, while underscore names survive.
		{"konkrete_1.9.9.jar", "konkrete", "1.9.9", false},
		{"yet_another_config_lib_v3.jar", "yet_another_config_lib", "3", false},

		// 'v'-prefixed versions.
		{"modmenu-v11.0.2.jar", "modmenu", "11.0.2", false},

		// Disabled files normalize like their enabled twins.
		{"sodium-0.5.7.jar.disabled", "sodium", "0.5.7", false},

		// Case folding.
		{"Sodium-0.5.7.JAR", "sodium", "0.5.7", false},

		// No version at all.
		{"optifine.jar", "optifine", "", false},
		{"some-mod.jar", "some-mod", "", false},

		// Compound bundled archives are flagged, never silently attributed.
		{"reinforced-barrels-2.6.1+1.21.1$reinforced-core-4.0.2+1.21.1.jar", "reinforced-barrels", "2.6.1", true},
		{"a-1.0$b-2.0.jar", "a", "1.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			id := Normalize(tt.filename)
			assert.Equal(t, tt.name, id.Name)
			assert.Equal(t, tt.version, id.Version)
			assert.Equal(t, tt.ambiguous, id.Ambiguous)
		})
	}
}

// Filenames differing only in their version token must agree on the name.
func TestNormalizeVersionInvariance(t *testing.T) {
	pairs := [][2]string{
		{"sodium-0.5.7.jar", "sodium-0.5.8.jar"},
		{"lithium-0.11.0.jar", "lithium-0.11.2.jar"},
		{"fabric-api-0.99.0+1.21.jar", "fabric-api-0.100.0+1.21.1.jar"},
		{"chat_heads-0.13.0-neoforge-1.20.jar", "chat_heads-0.14.0-neoforge-1.21.jar"},
		{"modmenu-v10.0.0.jar", "modmenu-v11.0.2.jar"},
	}
	for _, p := range pairs {
		a, b := Normalize(p[0]), Normalize(p[1])
		assert.Equal(t, a.Name, b.Name, "%s vs %s", p[0], p[1])
		assert.NotEqual(t, a.Version, b.Version)
	}
}

// Genuinely distinct mods sharing a name prefix must stay distinct.
func TestNormalizePrefixDistinctness(t *testing.T) {
	pairs := [][2]string{
		{"sodium-0.5.7.jar", "sodium-extra-0.6.0.jar"},
		{"fabric-api-0.100.0.jar", "fabric-language-kotlin-1.12.0.jar"},
		{"iris+1.7.3.jar", "iris-flw-compat-1.0.jar"},
	}
	for _, p := range pairs {
		a, b := Normalize(p[0]), Normalize(p[1])
		assert.NotEqual(t, a.Name, b.Name, "%s vs %s", p[0], p[1])
	}
}
