package host_test

import (
	"testing"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/domain/errors"
	"github.com/fornjot/modelhost/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgument(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  entities.Argument
	}{
		{name: "simple", token: "width=2", want: entities.Argument{Key: "width", Value: "2"}},
		{name: "trimmed", token: " width = 2 ", want: entities.Argument{Key: "width", Value: "2"}},
		{name: "empty value", token: "label=", want: entities.Argument{Key: "label", Value: ""}},
		{name: "value with equals", token: "expr=a=b", want: entities.Argument{Key: "expr", Value: "a=b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := host.ParseArgument(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgument_Malformed(t *testing.T) {
	for _, token := range []string{"width", "", "=2", "  =2"} {
		_, err := host.ParseArgument(token)
		var argErr *errors.ArgumentError
		require.ErrorAs(t, err, &argErr, "token %q", token)
		assert.Equal(t, token, argErr.Token)
	}
}

func TestParseArguments(t *testing.T) {
	args, err := host.ParseArguments([]string{"width=2", "depth=3", "width=5"})
	require.NoError(t, err)
	assert.Equal(t, []entities.Argument{
		{Key: "width", Value: "5"},
		{Key: "depth", Value: "3"},
	}, args)

	_, err = host.ParseArguments([]string{"width=2", "oops"})
	var argErr *errors.ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "oops", argErr.Token)
}

func TestParseArguments_Empty(t *testing.T) {
	args, err := host.ParseArguments(nil)
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestCollapseArguments(t *testing.T) {
	got := host.CollapseArguments([]entities.Argument{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "2"},
		{Key: "a", Value: "3"},
		{Key: "c", Value: "4"},
		{Key: "b", Value: "5"},
	})
	assert.Equal(t, []entities.Argument{
		{Key: "a", Value: "3"},
		{Key: "b", Value: "5"},
		{Key: "c", Value: "4"},
	}, got)
}
