package app

import (
	"os"
	"path/filepath"
	"testing"

	"classifieds_message_service/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Log = logger.Initialize("message_service_test", filepath.Join(os.TempDir(), "message_service_test_logs"))
	os.Exit(m.Run())
}
