package adapter_test

import (
	"io"
	"testing"

	"CivicPortal/internal/adapter"
	"CivicPortal/internal/adapter/openai"
	"CivicPortal/internal/adapter/relay"
	"CivicPortal/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompletionClient_SelectsProvider(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	assert.Equal(t, []string{openai.ProviderName, relay.ProviderName}, adapter.ListProviders())

	client, err := adapter.NewCompletionClient(&config.ChatConfig{Provider: " Relay ", BaseURL: "http://localhost:3000", Timeout: 1}, logger)
	require.NoError(t, err)
	assert.Equal(t, relay.ProviderName, client.Name())

	client, err = adapter.NewCompletionClient(&config.ChatConfig{Provider: "openai", Timeout: 1}, logger)
	require.NoError(t, err)
	assert.IsType(t, &openai.Client{}, client)

	_, err = adapter.NewCompletionClient(&config.ChatConfig{Provider: "bard"}, logger)
	assert.Error(t, err)
}
