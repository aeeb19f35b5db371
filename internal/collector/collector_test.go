package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxSnowflake(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want string
	}{
		{"both empty", "", "", ""},
		{"a empty", "", "123", "123"},
		{"b empty", "123", "", "123"},
		{"a larger", "1347312325148934194", "1347312325148934100", "1347312325148934194"},
		{"b larger", "1347312325148934100", "1347312325148934194", "1347312325148934194"},
		{"equal", "42", "42", "42"},
		{"different magnitude", "999999999999999999", "1000000000000000000", "1000000000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxSnowflake(tt.a, tt.b))
		})
	}
}

func TestParseMappings(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		raw := `[
			{"discord_channel_id": "111", "channel_id": "chan-a"},
			{"discord_channel_id": "222", "channel_id": "chan-b"}
		]`
		mappings, err := ParseMappings(raw)
		require.NoError(t, err)
		require.Len(t, mappings, 2)
		assert.Equal(t, "111", mappings[0].DiscordChannelID)
		assert.Equal(t, "chan-b", mappings[1].ChannelID)
	})

	t.Run("empty list", func(t *testing.T) {
		mappings, err := ParseMappings(`[]`)
		require.NoError(t, err)
		assert.Empty(t, mappings)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := ParseMappings(`[{"discord_channel_id": "111"}]`)
		assert.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := ParseMappings(`nope`)
		assert.Error(t, err)
	})
}

func TestIsSignalMessage(t *testing.T) {
	assert.True(t, isSignalMessage("@everyone BTC long setup"))
	assert.True(t, isSignalMessage("Entry: 42100, target 43k"))
	assert.True(t, isSignalMessage("move your STOP LOSS to breakeven"))
	assert.False(t, isSignalMessage("gm everyone"))
	assert.False(t, isSignalMessage(""))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "line one", firstLine("line one\nline two"))
	assert.Equal(t, "short", firstLine("short"))
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	got := firstLine(string(long))
	assert.Len(t, got, 123)
	assert.Contains(t, got, "...")
}
