package logging_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/yaz0rom/utilities/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLogger__Filtering(t *testing.T) {
	var output bytes.Buffer
	logger := logging.New(&output, logging.LevelWarn)

	logger.Debugf("debug %d", 1)
	logger.Infof("info %d", 2)
	logger.Warnf("warn %d", 3)
	logger.Errorf("error %d", 4)

	assert.Equal(t, "warning: warn 3\nerror: error 4\n", output.String())
}

func TestLogger__Nil(t *testing.T) {
	var logger *logging.Logger
	assert.NotPanics(t, func() {
		logger.Infof("nothing to see here")
		logger.Errorf("or here")
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]logging.Level{
		"debug":   logging.LevelDebug,
		"INFO":    logging.LevelInfo,
		"":        logging.LevelInfo,
		"warning": logging.LevelWarn,
		" warn ":  logging.LevelWarn,
		"error":   logging.LevelError,
	}
	for name, expected := range tests {
		level, err := logging.ParseLevel(name)
		require.NoError(t, err, "level %q", name)
		assert.Equal(t, expected, level, "level %q", name)
	}

	_, err := logging.ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLevel__YAML(t *testing.T) {
	var settings struct {
		Named    logging.Level `yaml:"named"`
		Numbered logging.Level `yaml:"numbered"`
	}
	err := yaml.Unmarshal([]byte("named: debug\nnumbered: 3\n"), &settings)
	require.NoError(t, err)
	assert.Equal(t, logging.LevelDebug, settings.Named)
	assert.Equal(t, logging.LevelError, settings.Numbered)

	err = yaml.Unmarshal([]byte("named: 9\n"), &settings)
	assert.Error(t, err)

	text, err := yaml.Marshal(map[string]logging.Level{"level": logging.LevelWarn})
	require.NoError(t, err)
	assert.Equal(t, "level: warn\n", string(text))
}
