package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.AcmeCollision.com/about", "acmecollision.com"},
		{"http://acmecollision.com:8080", "acmecollision.com"},
		{"www.acmecollision.com", "acmecollision.com"},
		{"acmecollision.com/", "acmecollision.com"},
		{"  ACMECOLLISION.COM  ", "acmecollision.com"},
		{"shop.acme.co.uk/path?q=1", "shop.acme.co.uk"},
		{"localhost", ""},
		{"n/a", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDomain(tt.in), tt.in)
	}
}

func TestNormalizePEName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Summit Capital Partners", "summit"},
		{"Summit Partners, LLC", "summit"},
		{"The Summit Group", "summit"},
		{"Alpine Investors", "alpineinvestors"},
		{"H&F Capital", "handf"},
		{"Capital Group", "capital"},
		{"Blue-Sky Equity Holdings LP", "bluesky"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePEName(tt.in), tt.in)
	}
}

func TestNormalizePlatformName(t *testing.T) {
	assert.Equal(t, "acmecollisioncenters", NormalizePlatformName("ACME Collision-Centers"))
	assert.Equal(t, "abcroofing", NormalizePlatformName(" A.B.C. Roofing "))
	assert.Empty(t, NormalizePlatformName(" -- "))
}

func TestSimilar(t *testing.T) {
	sim := DefaultSimilarity()
	tests := []struct {
		a, b string
		want bool
	}{
		{"acme", "acme", true},
		{"", "", true},
		{"acme", "", false},
		{"acmecollision", "acme", true},
		{"acmecollision", "acmecolision", true},
		{"abc", "abd", false},
		{"abcde", "abcdx", true},
		{"abcde", "abxyz", false},
		{"precisionautobodyworks", "precisionautobodywerkz", true},
		{"precisionautobodyworks", "precisionautoglassinc", false},
		{"northstar", "southstar", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sim.Similar(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestSimilar_CustomLimits(t *testing.T) {
	strict := Similarity{MaxEditDistance: 1, EditRatio: 0.5}
	assert.True(t, strict.Similar("abcdef", "abcdxf"))
	assert.False(t, strict.Similar("abcdef", "abxdxf"))
}
