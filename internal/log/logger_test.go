package log

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterPattern(t *testing.T) {
	f := &formatter{
		pattern: "%time [%level] %field %msg\n",
		time:    "2006-01-02 15:04:05",
	}

	entry := &logrus.Entry{
		Time:    time.Date(2026, 7, 14, 10, 30, 0, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "hello",
		Data:    logrus.Fields{"device": "eth0"},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "2026-07-14 10:30:00 [info] device=eth0 hello\n", string(out))
}

func TestBuildFieldsSorted(t *testing.T) {
	entry := &logrus.Entry{
		Data: logrus.Fields{"b": 2, "a": 1},
	}
	assert.Equal(t, "a=1 b=2", buildFields(entry))
}

func TestNewByConfigBadAppender(t *testing.T) {
	_, err := newByConfig(&LoggerConfig{
		Level:     "info",
		Pattern:   "%msg\n",
		Time:      time.RFC3339,
		Appenders: []AppenderConfig{{Type: "kafka"}},
	})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown appender type"))
}

func TestNewByConfigDefaultsOnBadLevel(t *testing.T) {
	l, err := newByConfig(&LoggerConfig{
		Level:   "chatty",
		Pattern: "%msg\n",
		Time:    time.RFC3339,
	})
	require.NoError(t, err)
	assert.True(t, l.IsInfoEnabled())
	assert.False(t, l.IsDebugEnabled())
}
