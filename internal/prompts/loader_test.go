package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Role(t *testing.T) {
	text, err := Get("proposal.json", "role")
	require.NoError(t, err)
	assert.Contains(t, text, "expert proposal writer")
}

func TestGet_AllPlatformGuides(t *testing.T) {
	for _, key := range []string{"guide-upwork", "guide-fiverr", "guide-linkedin", "guide-custom"} {
		text, err := Get("proposal.json", key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, text, key)
	}
}

func TestGet_OutputFormatHasSentinels(t *testing.T) {
	text, err := Get("proposal.json", "output-format")
	require.NoError(t, err)

	for _, sentinel := range []string{"PROPOSAL_START", "PROPOSAL_END", "COVER_LETTER_START", "COVER_LETTER_END"} {
		assert.Contains(t, text, sentinel)
	}
}

func TestGet_Missing(t *testing.T) {
	_, err := Get("nonexistent.json", "role")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not embedded")

	_, err = Get("proposal.json", "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet(t *testing.T) {
	assert.NotEmpty(t, MustGet("proposal.json", "instructions"))
	assert.Panics(t, func() { MustGet("nonexistent.json", "role") })
}
