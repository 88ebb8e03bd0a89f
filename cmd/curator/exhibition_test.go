package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/curator/pkg/types"
)

type fakeDetailer struct {
	details map[types.ArtworkKey]types.ArtworkDetail
	calls   []types.ArtworkKey
}

func (f *fakeDetailer) Detail(_ context.Context, key types.ArtworkKey) (types.ArtworkDetail, error) {
	f.calls = append(f.calls, key)
	d, ok := f.details[key]
	if !ok {
		return types.ArtworkDetail{}, errors.New("unreachable")
	}
	return d, nil
}

func TestPrintDescriptions(t *testing.T) {
	bowl := types.ArtworkSummary{Provider: types.ProviderVAM, ID: "O1", Title: "Tea bowl"}
	wave := types.ArtworkSummary{Provider: types.ProviderAIC, ID: "24645", Title: "The Great Wave"}
	plain := types.ArtworkSummary{Provider: types.ProviderMet, ID: "9", Title: "No description"}

	d := &fakeDetailer{details: map[types.ArtworkKey]types.ArtworkDetail{
		bowl.Key(): {ArtworkSummary: bowl, Description: `<p>Glazed <script>alert(1)</script>stoneware.</p>`},
		plain.Key(): {ArtworkSummary: plain},
	}}

	var buf bytes.Buffer
	err := printDescriptions(context.Background(), &buf, d, []types.ArtworkSummary{bowl, wave, plain})
	require.NoError(t, err)

	assert.Equal(t, []types.ArtworkKey{bowl.Key(), wave.Key(), plain.Key()}, d.calls)
	assert.Equal(t, "\nTea bowl\nGlazed stoneware.\n", buf.String(),
		"markup is stripped and unreachable or empty descriptions are skipped")
}

func TestPrintDescriptionsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := printDescriptions(ctx, &buf, &fakeDetailer{}, []types.ArtworkSummary{
		{Provider: types.ProviderAIC, ID: "1"},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}
