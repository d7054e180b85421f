package catalog_test

import (
	"testing"

	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizeRoundTrip(t *testing.T) {
	for _, s := range []string{"500ml", "1kg", "2.5L", "250g", "1.0kg", "007pcs"} {
		size, err := catalog.ParseSize(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, size.String())
	}
}

func TestParseSizeParts(t *testing.T) {
	size, err := catalog.ParseSize("500ml")
	require.NoError(t, err)
	assert.Equal(t, "500", size.Value)
	assert.Equal(t, "ml", size.Unit)

	amount, err := size.Amount()
	require.NoError(t, err)
	assert.Equal(t, 500.0, amount)
}

func TestParseSizeRejects(t *testing.T) {
	for _, s := range []string{"", "ml", "500", "500 ml", "five ml", "500ml!", " 500ml"} {
		_, err := catalog.ParseSize(s)
		assert.ErrorIs(t, err, catalog.ErrInvalidSize, s)
	}
}
