package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/forcebit/uriquery-go/pkg/lexer"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	a := &app{logger: zap.NewNop()}
	cmd := newRootCommand(a)

	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestNormalize(t *testing.T) {
	out, err := run(t, "", "normalize", "param=value", "?tag=a&tag=b", "", "?")
	require.NoError(t, err)
	assert.Equal(t, "?param=value\n?tag[]=a&tag[]=b\n\n\n", out)
}

func TestNormalize_Stdin(t *testing.T) {
	out, err := run(t, "b=2&a=1&a=3\nparam%21=%20\n", "normalize")
	require.NoError(t, err)
	assert.Equal(t, "?b=2&a[]=1&a[]=3\n?param%21=%20\n", out)
}

func TestNormalize_InvalidExpression(t *testing.T) {
	out, err := run(t, "", "normalize", "a=1", "?param1=value1&=value2")
	require.Error(t, err)
	assert.Equal(t, "?a=1\n", out)
	assert.True(t, errors.Is(err, lexer.ErrMalformedExpression))
	assert.Contains(t, err.Error(), "'=value2' is not a valid parameter expression")
}

func TestDecode(t *testing.T) {
	out, err := run(t, "", "decode", "?param[]=value1&param=value2&other=", "")
	require.NoError(t, err)
	assert.Equal(t, `{"other":[""],"param":["value1","value2"]}`+"\n{}\n", out)
}

func TestEncode(t *testing.T) {
	stdin := `{"param":["value1","value2","value3"]}
{}
{"a":[],"b":["x"]}`
	out, err := run(t, stdin, "encode")
	require.NoError(t, err)
	assert.Equal(t, "?param[]=value1&param[]=value2&param[]=value3\n?\n?a=&b=x\n", out)
}

func TestEncode_InvalidJSON(t *testing.T) {
	_, err := run(t, `{"a":"not a list"}`, "encode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode object 1")
}

func TestFlags(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		_, err := run(t, "", "--strict", "normalize", "a=100%")
		assert.True(t, errors.Is(err, lexer.ErrMalformedEscape))

		out, err := run(t, "", "normalize", "a=100%")
		require.NoError(t, err)
		assert.Equal(t, "?a=100%25\n", out)
	})

	t.Run("max params", func(t *testing.T) {
		_, err := run(t, "", "--max-params", "1", "decode", "a=1&b=2")
		assert.True(t, errors.Is(err, lexer.ErrLimitExceeded))

		_, err = run(t, "", "--max-params", "0", "decode", strings.Repeat("a=1&", 20000))
		assert.True(t, errors.Is(err, lexer.ErrLimitExceeded), "input length limit still applies")

		_, err = run(t, "", "--max-params", "0", "--max-input", "0", "decode", strings.Repeat("a=1&", 20000))
		assert.NoError(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = newLogger("loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "loud"`)
}
