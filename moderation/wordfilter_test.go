package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWordFilter_DetectsNormalizedWords(t *testing.T) {
	req := require.New(t)
	filter, err := NewWordFilter([]string{"badger", "scam"})
	req.NoError(err)

	cases := []struct {
		name    string
		content string
		matches []string
	}{
		{"plain word", "that badger bites", []string{"badger"}},
		{"uppercase", "BADGER", []string{"badger"}},
		{"leet speak", "b4dg3r", []string{"badger"}},
		{"dotted obfuscation", "B.4.d.g.€r", []string{"badger"}},
		{"spaced out", "s c a m", []string{"scam"}},
		{"clean content", "lovely stream today", nil},
		{"empty content", "", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.matches, filter.Detect(tc.content))
		})
	}
}

func TestWordFilter_EmptyDictionaryNeverMatches(t *testing.T) {
	req := require.New(t)

	filter, err := NewWordFilter(nil)
	req.NoError(err)
	req.Nil(filter.Detect("anything at all"))

	// Pure-noise entries normalize to nothing and are dropped
	filter, err = NewWordFilter([]string{"...", "  ", "-_-"})
	req.NoError(err)
	req.Nil(filter.Detect("..."))
}
