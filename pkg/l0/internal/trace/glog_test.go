//go:build !tinygo

package trace

import (
	"testing"

	"github.com/golang/glog"
	"github.com/stretchr/testify/require"
)

func TestVerbosity(t *testing.T) {
	require.Equal(t, glog.V(3), V(3))
	require.False(t, bool(V(99)))
	Infof("info %d", 1)
	Warningf("warning %d", 2)
	V(99).Infof("never %d", 3)
}
