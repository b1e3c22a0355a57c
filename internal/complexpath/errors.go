package complexpath

import "vecl/internal/errors"

func errUndefined(id Identifier) error {
	return errors.NewDefinitionError("undefined struct/enum: " + id.String())
}

func errUnreachable() error {
	return errors.NewDefinitionError("unreachable member type kind")
}
