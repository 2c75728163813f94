package gitcontent

import (
	"io"
	"os"
	"testing"

	"gitoperator/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.Init(logging.LevelDebug, logging.FormatText, io.Discard)
	os.Exit(m.Run())
}
