package cliutil_test

import (
	"os"
	"testing"

	"github.com/lestrrat-go/xmlpush/internal/cliutil"
	"github.com/stretchr/testify/require"
)

func TestIsTty(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "tty")
	require.NoError(t, err, "os.CreateTemp succeeds")
	defer f.Close()

	require.False(t, cliutil.IsTty(f.Fd()), "a regular file is not a terminal")
}
