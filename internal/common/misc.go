package common

import (
	"fmt"

	"github.com/pkg/errors"
)

// ToError try convert something to error.
func ToError(err interface{}) error {
	if err == nil {
		return nil
	}
	switch v := err.(type) {
	case error:
		return v
	case string:
		return errors.New(v)
	default:
		return fmt.Errorf("%v", v)
	}
}
