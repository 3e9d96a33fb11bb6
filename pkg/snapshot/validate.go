package snapshot

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("nodename", func(fl validator.FieldLevel) bool {
		return lgerrors.ValidateNodeName(fl.Field().String()) == nil
	})
}

// Validate checks the structural rules of a snapshot:
//   - every node and neighbor name is a valid node name
//   - node names are unique
//   - a link's node_name, when present, matches its owning node
//
// Consistency of levels and states is not checked here; that is the job of
// reconciliation. Errors carry [lgerrors.ErrCodeInvalidSnapshot].
func Validate(s *Snapshot) error {
	if s == nil {
		return lgerrors.New(lgerrors.ErrCodeInvalidSnapshot, "snapshot cannot be nil")
	}

	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]int, len(s.Nodes))
	for i, n := range s.Nodes {
		if prev, ok := seen[n.Name]; ok {
			return lgerrors.New(lgerrors.ErrCodeInvalidSnapshot,
				"nodes[%d]: duplicate node %q (first at nodes[%d])", i, n.Name, prev)
		}
		seen[n.Name] = i

		for j, l := range n.Links {
			if l.NodeName != "" && l.NodeName != n.Name {
				return lgerrors.New(lgerrors.ErrCodeInvalidSnapshot,
					"nodes[%d].links[%d]: link belongs to %q, not %q", i, j, l.NodeName, n.Name)
			}
		}
	}
	return nil
}

// formatValidationError converts validator errors to a single coded error
// naming the first offending field.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return lgerrors.Wrap(lgerrors.ErrCodeInvalidSnapshot, err, "validate snapshot")
	}

	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "Snapshot.")
	switch fe.Tag() {
	case "required":
		return lgerrors.New(lgerrors.ErrCodeInvalidSnapshot, "%s: is required", field)
	case "nodename":
		return lgerrors.Wrap(lgerrors.ErrCodeInvalidSnapshot,
			lgerrors.ValidateNodeName(fmt.Sprint(fe.Value())), "%s", field)
	}
	return lgerrors.New(lgerrors.ErrCodeInvalidSnapshot, "%s: failed %q validation", field, fe.Tag())
}
