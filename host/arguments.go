package host

import (
	"strings"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/domain/errors"
)

// ParseArgument parses a single key=value token. The token is split at the first "=";
// key and value are trimmed of surrounding whitespace and the value may itself
// contain "=".
func ParseArgument(token string) (entities.Argument, error) {
	key, value, ok := strings.Cut(token, "=")
	if !ok {
		return entities.Argument{}, &errors.ArgumentError{Token: token, Reason: `expected key=value`}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return entities.Argument{}, &errors.ArgumentError{Token: token, Reason: "empty key"}
	}
	return entities.Argument{Key: key, Value: strings.TrimSpace(value)}, nil
}

// ParseArguments parses every token, stopping at the first malformed one, and
// collapses repeated keys with CollapseArguments.
func ParseArguments(tokens []string) ([]entities.Argument, error) {
	args := make([]entities.Argument, 0, len(tokens))
	for _, tok := range tokens {
		arg, err := ParseArgument(tok)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return CollapseArguments(args), nil
}

// CollapseArguments keeps the last value of every key, ordered by first appearance.
func CollapseArguments(args []entities.Argument) []entities.Argument {
	index := make(map[string]int, len(args))
	out := make([]entities.Argument, 0, len(args))
	for _, arg := range args {
		if i, seen := index[arg.Key]; seen {
			out[i].Value = arg.Value
			continue
		}
		index[arg.Key] = len(out)
		out = append(out, arg)
	}
	return out
}
