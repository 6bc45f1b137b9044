package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultCategories(t *testing.T) {
	for _, name := range DefaultCategories {
		cat, err := Load(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, cat.Name)
		assert.NotEmpty(t, cat.Tags)
		assert.NotEmpty(t, cat.Conversations)
		for _, conv := range cat.Conversations {
			assert.NotEmpty(t, conv)
		}
	}
}

func TestLoadGreetingsContent(t *testing.T) {
	cat, err := Load("english.greetings")
	require.NoError(t, err)
	assert.Equal(t, []string{"greetings"}, cat.Tags)
	assert.Equal(t, []string{"Hello", "Hi"}, cat.Conversations[0])
}

func TestLoadUnknownCategory(t *testing.T) {
	for _, name := range []string{"", "english.klingon", "../data", "english/greetings"} {
		_, err := Load(name)
		assert.ErrorIs(t, err, ErrUnknownCategory, name)
	}
}

func TestAvailable(t *testing.T) {
	names, err := Available()
	require.NoError(t, err)
	assert.Equal(t, []string{"english.conversations", "english.greetings"}, names)
}

func TestCustomConversationIsFixed(t *testing.T) {
	require.Len(t, CustomConversation, 18)
	assert.Equal(t, "Good morning! How are you doing?", CustomConversation[0])
	assert.Equal(t, "You're very welcome!", CustomConversation[len(CustomConversation)-1])
}
