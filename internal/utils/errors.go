package utils

import "fmt"

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)

}

func ErrorWrapOrNilf(err error, msg string, args ...any) error {
	return ErrorWrapOrNil(err, fmt.Sprintf(msg, args...))
}
