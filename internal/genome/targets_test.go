package genome

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cbrackley/capC-MAP/internal/bed"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex(t *testing.T) *Index {
	log, _ := test.NewNullLogger()
	index, err := NewIndex(append(frags("chr1", 0, 100, 200, 300, 400), frags("chr2", 0, 50, 90)...), log)
	require.NoError(t, err)
	return index
}

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name         string
		targets      []bed.Interval
		wantNames    []string
		wantErr      error
		wantWarnings int
	}{
		{
			"two targets",
			[]bed.Interval{
				{Chrom: "chr2", Start: 50, End: 90, Name: "zfp"},
				{Chrom: "chr1", Start: 100, End: 200, Name: "alpha"},
			},
			[]string{"alpha", "zfp"},
			nil,
			0,
		},
		{
			"not on a fragment boundary",
			[]bed.Interval{{Chrom: "chr1", Start: 100, End: 250, Name: "alpha"}},
			nil,
			ErrNotFragment,
			0,
		},
		{
			"end past the fragment",
			[]bed.Interval{{Chrom: "chr2", Start: 0, End: 60, Name: "alpha"}},
			nil,
			ErrNotFragment,
			0,
		},
		{
			"start inside a fragment",
			[]bed.Interval{{Chrom: "chr1", Start: 150, End: 200, Name: "alpha"}},
			nil,
			ErrNotFragment,
			0,
		},
		{
			"duplicate name",
			[]bed.Interval{
				{Chrom: "chr1", Start: 100, End: 200, Name: "alpha"},
				{Chrom: "chr1", Start: 300, End: 400, Name: "alpha"},
			},
			nil,
			ErrDuplicateTarget,
			0,
		},
		{
			"duplicate location",
			[]bed.Interval{
				{Chrom: "chr1", Start: 100, End: 200, Name: "alpha"},
				{Chrom: "chr1", Start: 100, End: 200, Name: "beta"},
			},
			[]string{"alpha"},
			nil,
			1,
		},
		{
			"no name",
			[]bed.Interval{{Chrom: "chr1", Start: 100, End: 200}},
			nil,
			ErrUnnamedTarget,
			0,
		},
		{
			"unknown chromosome",
			[]bed.Interval{{Chrom: "chr3", Start: 100, End: 200, Name: "alpha"}},
			nil,
			ErrUnknownChrom,
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, hook := test.NewNullLogger()
			index := testIndex(t)

			reg, err := NewRegistry(tt.targets, index, log)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, reg.Names())
			assert.Len(t, warnings(hook), tt.wantWarnings)
		})
	}
}

func TestNewRegistry_marksFragments(t *testing.T) {
	log, _ := test.NewNullLogger()
	index := testIndex(t)

	reg, err := NewRegistry([]bed.Interval{
		{Chrom: "chr1", Start: 200, End: 300, Name: "beta"},
		{Chrom: "chr1", Start: 0, End: 100, Name: "alpha"},
	}, index, log)
	require.NoError(t, err)

	beta, ok := reg.Lookup("beta")
	require.True(t, ok)
	assert.Equal(t, 0, beta.ID)
	assert.Equal(t, "chr1:200-300", beta.String())

	f := index.Fragment(beta.Fragment)
	assert.True(t, f.IsTarget)
	assert.Equal(t, "beta", f.TargetName)

	// a lookup through the index sees the flag as well
	i, err := index.FindContaining("chr1", 250)
	require.NoError(t, err)
	assert.True(t, index.Fragment(i).IsTarget)

	i, err = index.FindContaining("chr1", 150)
	require.NoError(t, err)
	assert.False(t, index.Fragment(i).IsTarget)

	targets := reg.Targets()
	require.Len(t, targets, 2)
	assert.Equal(t, "alpha", targets[0].Name)
	assert.Equal(t, 1, targets[0].ID)

	_, ok = reg.Lookup("gamma")
	assert.False(t, ok)
}

func TestNewRegistry_withoutIndex(t *testing.T) {
	log, _ := test.NewNullLogger()

	_, err := NewRegistry([]bed.Interval{{Chrom: "chr1", Start: 0, End: 100, Name: "a"}}, nil, log)
	assert.True(t, errors.Is(err, ErrNoIndex))
}

func TestLoadTargetsFile(t *testing.T) {
	log, _ := test.NewNullLogger()
	index := testIndex(t)

	path := filepath.Join(t.TempDir(), "targets.bed")
	require.NoError(t, os.WriteFile(path, []byte("chr1\t100\t200\talpha\nchr2\t0\t50\tbeta\n"), 0644))

	reg, err := LoadTargetsFile(path, index, log)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
}
