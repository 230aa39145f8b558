package shell

import (
	"fmt"
	"strings"

	"github.com/prattikkk/Incubyte/internal/models"
	"github.com/prattikkk/Incubyte/internal/service"
)

// splitArgs splits a command line on whitespace, with double quotes grouping
// words ("Kaju Katli" stays one argument).
func splitArgs(line string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case !quoted && (r == ' ' || r == '\t'):
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}
	return args
}

// parseFilterArgs reads key=value filter arguments for the list command:
// name=, category=, min=, max=. Anything omitted stays off the wire.
func parseFilterArgs(args []string) (models.QueryFilter, error) {
	var name, category, minPrice, maxPrice string

	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return models.QueryFilter{}, fmt.Errorf("filter %q must look like key=value: %w", arg, service.ErrInvalidInput)
		}
		switch key {
		case "name":
			name = value
		case "category":
			category = value
		case "min":
			minPrice = value
		case "max":
			maxPrice = value
		default:
			return models.QueryFilter{}, fmt.Errorf("unknown filter %q: %w", key, service.ErrInvalidInput)
		}
	}

	return service.ParseQueryFilter(name, category, minPrice, maxPrice)
}
