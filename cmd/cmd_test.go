package cmd

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFragments = "chr1\t0\t100\nchr1\t100\t200\nchr1\t200\t300\nchr2\t0\t400\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with args, after clearing flags set by
// earlier runs
func execute(t *testing.T, args ...string) error {
	t.Helper()
	for _, c := range RootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	RootCmd.SetArgs(args)
	return RootCmd.Execute()
}

func Test_locateExec(t *testing.T) {
	dir := t.TempDir()
	frags := writeFile(t, dir, "frags.bed", testFragments)
	oligos := writeFile(t, dir, "oligos.bed", "chr1\t120\t160\toligoA\nchr2\t10\t30\toligoB\t7\n")

	out := filepath.Join(dir, "targets.bed")
	require.NoError(t, execute(t, "locate", "-r", frags, "-i", oligos, "-o", out))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "chr1\t100\t200\toligoA\nchr2\t0\t400\toligoB\t7\n", string(b))

	// never overwrites
	assert.Error(t, execute(t, "locate", "-r", frags, "-i", oligos, "-o", out))
}

func Test_locateExec_scores(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"dot score", "chr1\t120\t160\tpeak1\t.\t.\n", "chr1\t100\t200\tpeak1\t.\t.\n"},
		{"float score", "chr2\t10\t30\tpeak2\t0.5\t+\n", "chr2\t0\t400\tpeak2\t0.5\t+\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			frags := writeFile(t, dir, "frags.bed", testFragments)
			peaks := writeFile(t, dir, "peaks.bed", tt.input)

			out := filepath.Join(dir, "targets.bed")
			require.NoError(t, execute(t, "locate", "-r", frags, "-i", peaks, "-o", out))

			b, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func Test_locateExec_single(t *testing.T) {
	dir := t.TempDir()
	frags := writeFile(t, dir, "frags.bed", testFragments)

	out := filepath.Join(dir, "one.bed")
	require.NoError(t, execute(t, "locate", "-r", frags, "-l", "chr1:250-260", "-o", out))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "chr1\t200\t300\n", string(b))
}

func Test_chromSizes(t *testing.T) {
	dir := t.TempDir()
	frags := writeFile(t, dir, "frags.bed", testFragments)

	out := filepath.Join(dir, "genome.sizes")
	require.NoError(t, execute(t, "chromsizes", "-r", frags, "-o", out))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "chr1\t300\nchr2\t400\n", string(b))
}

func Test_chromSizes_check(t *testing.T) {
	dir := t.TempDir()
	frags := writeFile(t, dir, "frags.bed", testFragments)

	tests := []struct {
		name    string
		sizes   string
		wantErr bool
	}{
		{"matching", "chr2\t400\nchr1\t300\nchrM\t16299\n", false},
		{"short chromosome", "chr1\t250\nchr2\t400\n", true},
		{"missing chromosome", "chr1\t300\n", true},
		{"unreadable table", "chr1\tlong\n", true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sizes := writeFile(t, dir, "table"+strconv.Itoa(i)+".sizes", tt.sizes)
			err := execute(t, "chromsizes", "-r", frags, "--check", sizes)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func Test_processExec(t *testing.T) {
	dir := t.TempDir()
	frags := writeFile(t, dir, "frags.bed", testFragments)
	targets := writeFile(t, dir, "targets.bed", "chr1\t0\t100\tgeneA\n")
	sam := writeFile(t, dir, "reads.sam", strings.Join([]string{
		"@HD\tVN:1.6",
		"r1DIGEST1\t0\tchr1\t11\t42\t4M\t*\t0\t0\tACGT\tFFFF",
		"r1DIGEST2\t0\tchr1\t221\t42\t4M\t*\t0\t0\tACGT\tFFFF",
	}, "\n")+"\n")
	prefix := filepath.Join(dir, "run")

	require.NoError(t, execute(t, "process", "-r", frags, "-t", targets, "-s", sam, "-o", prefix, "-e", "50"))

	b, err := os.ReadFile(prefix + "_validpairs_geneA.pairs")
	require.NoError(t, err)
	assert.Equal(t, "chr1\t200\t300\n", string(b))

	b, err = os.ReadFile(prefix + "_interactioncounts.dat")
	require.NoError(t, err)
	assert.Contains(t, string(b), "geneA\t1\t0\t1\t1\t1\n")

	_, err = os.Stat(prefix + "_report.dat")
	assert.NoError(t, err)
}

func Test_filePrepender(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"root", "docs/capc.md", "---\nlayout: default\ntitle: capc\nnav_order: 0\nhas_children: true\npermalink: /\n---\n"},
		{"child", "docs/capc_locate.md", "---\nlayout: default\ntitle: locate\nparent: capc\nnav_order: 1\n---\n"},
		{"unknown", "docs/capc_completion.md", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filePrepender(tt.filename))
		})
	}

	assert.Equal(t, "/", linkHandler("capc.md"))
	assert.Equal(t, "capc_process", linkHandler("capc_process.md"))
}
