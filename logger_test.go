package smallany

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nilLoggerProbe is only used here so its table is built after SetLogger(nil).
type nilLoggerProbe struct{ V [2]int32 }

func TestSetLoggerNilRestoresNop(t *testing.T) {
	require.NotNil(t, Logger())

	SetLogger(nil)
	require.NotNil(t, Logger())

	assert.NotPanics(t, func() {
		a := MustNew(nilLoggerProbe{})
		a.Clear()
	})
}
