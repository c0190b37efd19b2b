package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerConfigValidate(t *testing.T) {
	require.NoError(t, LoggerConfig{}.Validate())
	require.NoError(t, LoggerConfig{Encoding: "json", Level: "debug"}.Validate())
	assert.Error(t, LoggerConfig{Encoding: "xml"}.Validate())
	assert.Error(t, LoggerConfig{Level: "verbose"}.Validate())
}

func TestLoggerConfigBuildDefaults(t *testing.T) {
	logger, err := LoggerConfig{}.Build()
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestLoggerConfigBuildRejectsInvalid(t *testing.T) {
	_, err := LoggerConfig{Encoding: "xml"}.Build()
	require.Error(t, err)
}
