package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeaders(t *testing.T) {
	headers := ParseHeaders(" authorization = Bearer abc ,broken,=nokey, x-team=rewards,")
	require.Equal(t, map[string]string{
		"authorization": "Bearer abc",
		"x-team":        "rewards",
	}, headers)
	require.Empty(t, ParseHeaders(""))
}

func TestInitWithoutExporters(t *testing.T) {
	_, err := Init(context.Background(), Config{})
	require.Error(t, err)

	shutdown, err := Init(context.Background(), Config{ServiceName: "vaultkeeper"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
