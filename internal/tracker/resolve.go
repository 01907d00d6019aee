// ABOUTME: Resolves a full activity id or a unique id prefix.
package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/timetrack/internal/models"
)

var (
	ErrNotFound  = errors.New("activity not found")
	ErrAmbiguous = errors.New("ambiguous id prefix")
)

// Resolve finds the activity whose id equals or starts with idOrPrefix.
// Matching is case-insensitive since ULIDs are usually typed in lower case.
func Resolve(activities []models.Activity, idOrPrefix string) (models.Activity, error) {
	needle := strings.ToUpper(strings.TrimSpace(idOrPrefix))
	if needle == "" {
		return models.Activity{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	var matches []models.Activity
	for _, a := range activities {
		id := strings.ToUpper(a.ID)
		if id == needle {
			return a, nil
		}
		if strings.HasPrefix(id, needle) {
			matches = append(matches, a)
		}
	}

	switch len(matches) {
	case 0:
		return models.Activity{}, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return models.Activity{}, fmt.Errorf("%w: %s matches %d activities", ErrAmbiguous, idOrPrefix, len(matches))
	}
}
