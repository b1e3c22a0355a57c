package pipeline

import "vecl/internal/errors"

func wrapPassErr(pass string, err error) error {
	if err == nil {
		return nil
	}
	return errors.NewPassError(pass, err.Error())
}

func errUnknownCode(code rune) error {
	return errors.NewDefinitionError("unknown pass code: " + string(code))
}
