package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"createdat", "updatedat", 3},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "displayname", Normalize("DisplayName"))
	assert.Equal(t, "displayname", Normalize("display_name"))
	assert.Equal(t, "displayname", Normalize("displayName()"))
	assert.Equal(t, "", Normalize(""))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"user", "http", "addr"}, Words("userHTTPAddr"))
	assert.Equal(t, []string{"created", "at"}, Words("created_at"))
	assert.Equal(t, []string{"order", "id"}, Words("OrderID"))
	assert.Empty(t, Words(""))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("Email", "email"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.Less(t, Similarity("Email", "Status"), MinSuggestScore)
}

func TestRank(t *testing.T) {
	ranked := Rank("Emial", []string{"Status", "Email", "ID"})
	assert.Equal(t, "Email", ranked[0].Name)
	assert.Len(t, ranked.Names(), 3)
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, "Profile", Suggest("Profil", []string{"ID", "Profile", "Email"}))
	assert.Equal(t, "DisplayName()", Suggest("displayname", []string{"DisplayName()"}))
	assert.Equal(t, "", Suggest("zzz", []string{"ID", "Email"}))
	assert.Equal(t, "", Suggest("x", nil))
}
