package ie

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPFDContentsRoundTrip(t *testing.T) {
	want := PFDContentsFields{
		FlowDescription: []byte("permit out ip from any to assigned"),
		URL:             []byte("http://example.com/app"),
		DomainName:      []byte("example.com"),
	}
	pfd := NewPFDContents(want)

	b, err := pfd.Marshal()
	require.NoError(t, err)

	got, n, err := Parse(b)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)

	fields, err := got.PFDContentsValue()
	require.NoError(t, err)
	assert.Equal(t, want.FlowDescription, fields.FlowDescription)
	assert.Equal(t, want.URL, fields.URL)
	assert.Equal(t, want.DomainName, fields.DomainName)
	assert.Nil(t, fields.CustomPFDContent)
}

func TestPFDContentsBuilderCompactsOnReplace(t *testing.T) {
	b := NewPFDContentsBuilder()
	require.True(t, b.SetFlowDescription([]byte("flow-v1")))
	require.True(t, b.SetURL([]byte("http://v1")))
	require.True(t, b.SetFlowDescription([]byte("flow-v2-longer")))

	fields := b.Fields()
	assert.Equal(t, []byte("flow-v2-longer"), fields.FlowDescription)
	assert.Equal(t, []byte("http://v1"), fields.URL)
}

func TestPFDContentsOverflowIsSilentNoOp(t *testing.T) {
	b := NewPFDContentsBuilder()
	require.True(t, b.SetFlowDescription([]byte("fits fine")))

	tooBig := bytes.Repeat([]byte("a"), pfdContentsScratchSize+1)
	ok := b.SetCustomPFDContent(tooBig)
	assert.False(t, ok)

	fields := b.Fields()
	assert.Equal(t, []byte("fits fine"), fields.FlowDescription)
	assert.Nil(t, fields.CustomPFDContent)
}
