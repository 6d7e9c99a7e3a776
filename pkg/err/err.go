package errprocess

import (
	"errors"
	"fmt"

	"classifieds_message_service/pkg/logger"
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Wrap log and wrap err info
func Wrap(errMsg string, err error) error {
	logger.Log.Errorf(errMsg, err)
	return fmt.Errorf("%s: %w", errMsg, err)
}
