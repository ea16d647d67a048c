package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDsCarryPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		gen    func() string
	}{
		{PrefixUser, NewUserID},
		{PrefixDrawing, NewDrawingID},
		{PrefixSnapshot, NewSnapshotID},
		{PrefixShape, NewShapeID},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			id := tt.gen()
			assert.True(t, strings.HasPrefix(id, tt.prefix+"_"), id)
			require.NoError(t, Validate(id, tt.prefix))
		})
	}
}

func TestValidateRejects(t *testing.T) {
	assert.Error(t, Validate(NewUserID(), PrefixDrawing))
	assert.Error(t, Validate("not an id", PrefixDrawing))
}
