package automatic

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestSeedsRoundTrip(t *testing.T) {
	is := is.New(t)
	seeds := GenerateSeeds(3)
	is.True(seeds[0] != seeds[1])

	var buf bytes.Buffer
	is.NoErr(WriteSeeds(&buf, seeds))
	is.True(strings.HasPrefix(buf.String(), "#"))
	got, err := ReadSeeds(&buf)
	is.NoErr(err)
	is.Equal(got, seeds)

	path := filepath.Join(t.TempDir(), "seeds.txt")
	is.NoErr(SaveSeeds(seeds, path))
	got, err = LoadSeeds(path)
	is.NoErr(err)
	is.Equal(got, seeds)
}

func TestReadSeedsRejectsShortSeed(t *testing.T) {
	is := is.New(t)
	_, err := ReadSeeds(strings.NewReader("\n# comment\nAAAA\n"))
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "line 3"))
}
