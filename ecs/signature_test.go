package ecs_test

import (
	"testing"

	"github.com/plus3/densecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureView(t *testing.T) {
	m := newTestManager(2)
	ids := spawn(t, m, 2)

	require.NoError(t, m.SetBit(ids[0], 1))
	require.NoError(t, m.SetBit(ids[0], 10))
	require.NoError(t, m.SetBit(ids[1], 1))

	a, err := m.Signature(ids[0])
	require.NoError(t, err)
	b, err := m.Signature(ids[1])
	require.NoError(t, err)

	assert.Equal(t, uint(testMaxComponents+testMaxTags), a.Len())
	assert.Equal(t, 2, a.Count())
	assert.Equal(t, []ecs.Bit{1, 10}, a.Bits())
	assert.Equal(t, "{1,10}", a.String())
	assert.True(t, a.Has(10))
	assert.False(t, a.Has(2))
	assert.False(t, a.Has(1000), "bits past the width are never set")

	assert.True(t, a.Contains(b))
	assert.False(t, b.Contains(a))
	assert.False(t, a.Equal(b))
	assert.False(t, a.IsZero())
}

func TestSignatureViewsDoNotOverlap(t *testing.T) {
	registry := ecs.NewSignatureRegistry(64, 0)
	m := ecs.NewEntityManager(registry, 2)
	ids := spawn(t, m, 2)

	sig, err := m.Signature(ids[0])
	require.NoError(t, err)
	clone := sig.Clone()
	assert.Equal(t, uint(64), clone.Len())

	require.NoError(t, m.SetBit(ids[1], 0))
	assert.False(t, sig.Has(0), "setting a bit on entity 1 must not show up in entity 0")
}

func TestZeroSignature(t *testing.T) {
	var sig ecs.Signature
	assert.True(t, sig.IsZero())
	assert.Equal(t, uint(0), sig.Len())
	assert.Nil(t, sig.Bits())
	assert.False(t, sig.Has(0))
	assert.Equal(t, "{}", sig.String())
	assert.True(t, sig.Equal(ecs.Signature{}))
	assert.True(t, sig.Contains(ecs.Signature{}))
	assert.True(t, sig.Clone().IsZero())
}
