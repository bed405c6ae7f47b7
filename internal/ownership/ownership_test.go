package ownership

import (
	"testing"

	"github.com/stretchr/testify/require"

	vberrors "stackit.dev/vbranch/internal/errors"
	"stackit.dev/vbranch/internal/git"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("fragment precedes existing ownership", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "b:2\na:1", Merge("b:2", "a:1"))
	})

	t.Run("empty existing ownership leaves no trailing newline", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "src/x.ts:h1", Merge("src/x.ts:h1", ""))
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "b:2\na:1", Merge("\n b:2", "a:1\n\n"))
	})

	t.Run("duplicates are kept", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "a:1\na:1", Merge("a:1", "a:1"))
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("parses claims and skips blank lines", func(t *testing.T) {
		t.Parallel()
		o, err := Parse("src/x.ts:h1,h2\n\n y.ts:h9 \nz.go:")
		require.NoError(t, err)
		require.Equal(t, []Claim{
			{FilePath: "src/x.ts", HunkIDs: []string{"h1", "h2"}},
			{FilePath: "y.ts", HunkIDs: []string{"h9"}},
			{FilePath: "z.go"},
		}, o.Claims)
		require.True(t, o.Claims[2].WholeFile())
	})

	t.Run("paths may contain colons", func(t *testing.T) {
		t.Parallel()
		c, err := ParseClaim("C:/repo/a.go:1-4")
		require.NoError(t, err)
		require.Equal(t, "C:/repo/a.go", c.FilePath)
		require.Equal(t, []string{"1-4"}, c.HunkIDs)
	})

	t.Run("rejects malformed lines", func(t *testing.T) {
		t.Parallel()
		for _, line := range []string{"no-colon", ":1-4", "a.go:1-4,,5-6"} {
			_, err := Parse(line)
			require.ErrorIs(t, err, vberrors.ErrInvalidClaim, line)
		}
	})

	t.Run("string round trip", func(t *testing.T) {
		t.Parallel()
		const record = "src/x.ts:h1,h2\ny.ts:h9"
		o, err := Parse(record)
		require.NoError(t, err)
		require.Equal(t, record, o.String())
	})
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	o, err := Parse("a.go:3\nb.go:1\na.go:1,3\nc.go:\nc.go:7")
	require.NoError(t, err)

	require.Equal(t, "a.go:3,1\nb.go:1\nc.go:", o.Normalize().String())
}

func TestSubtract(t *testing.T) {
	t.Parallel()

	base, err := Parse("a.go:1,2\nb.go:5\nc.go:")
	require.NoError(t, err)

	t.Run("removes taken hunks and empty files", func(t *testing.T) {
		t.Parallel()
		taken, err := Parse("a.go:2\nb.go:5")
		require.NoError(t, err)

		rest, changed, err := base.Subtract(taken)
		require.NoError(t, err)
		require.True(t, changed)
		require.Equal(t, "a.go:1\nc.go:", rest.String())
	})

	t.Run("whole file claim removes every hunk", func(t *testing.T) {
		t.Parallel()
		taken, err := Parse("a.go:")
		require.NoError(t, err)

		rest, changed, err := base.Subtract(taken)
		require.NoError(t, err)
		require.True(t, changed)
		require.Equal(t, "b.go:5\nc.go:", rest.String())
	})

	t.Run("unrelated claims leave the record untouched", func(t *testing.T) {
		t.Parallel()
		taken, err := Parse("z.go:1")
		require.NoError(t, err)

		rest, changed, err := base.Subtract(taken)
		require.NoError(t, err)
		require.False(t, changed)
		require.Equal(t, base.String(), rest.String())
	})
}

func TestSubtract_WholeFileClaims(t *testing.T) {
	t.Parallel()

	base, err := Parse("a.go:\nb.go:1")
	require.NoError(t, err)

	t.Run("taking part of a whole file fails", func(t *testing.T) {
		t.Parallel()
		taken, err := Parse("a.go:h1")
		require.NoError(t, err)

		_, changed, err := base.Subtract(taken)
		require.ErrorIs(t, err, vberrors.ErrWholeFileSplit)
		require.False(t, changed)
	})

	t.Run("expanded claims can be split", func(t *testing.T) {
		t.Parallel()
		working, err := Parse("a.go:h1,h2\nb.go:1")
		require.NoError(t, err)

		expanded, changed := base.Expand(working)
		require.True(t, changed)
		require.Equal(t, "a.go:h1,h2\nb.go:1", expanded.String())

		taken, err := Parse("a.go:h1")
		require.NoError(t, err)
		rest, changed, err := expanded.Subtract(taken)
		require.NoError(t, err)
		require.True(t, changed)
		require.Equal(t, "a.go:h2\nb.go:1", rest.String())
	})

	t.Run("files missing from the working copy stay whole", func(t *testing.T) {
		t.Parallel()
		working, err := Parse("b.go:1")
		require.NoError(t, err)

		expanded, changed := base.Expand(working)
		require.False(t, changed)
		require.Equal(t, base.String(), expanded.String())
	})
}

func TestContains(t *testing.T) {
	t.Parallel()

	o, err := Parse("a.go:1,2\nc.go:")
	require.NoError(t, err)

	require.True(t, o.Contains("a.go", "2"))
	require.True(t, o.Contains("a.go", ""))
	require.True(t, o.Contains("c.go", "99"))
	require.False(t, o.Contains("a.go", "3"))
	require.False(t, o.Contains("b.go", "1"))
}

func TestFilesToOwnership(t *testing.T) {
	t.Parallel()

	files := []File{
		{Path: "a.go", Hunks: []Hunk{{ID: "1-4"}, {ID: "9-12"}}},
		{Path: "b.go", Hunks: []Hunk{{ID: "3-3"}}},
	}
	require.Equal(t, "a.go:1-4,9-12\nb.go:3-3", FilesToOwnership(files))
	require.Empty(t, FilesToOwnership(nil))
}

func TestFromHunks(t *testing.T) {
	t.Parallel()

	hunks := []git.Hunk{
		{File: "a.go", NewStart: 1, NewCount: 3},
		{File: "b.go", NewStart: 10, NewCount: 1},
		{File: "a.go", NewStart: 20, NewCount: 2},
	}

	require.Equal(t, "a.go:1-4,20-22\nb.go:10-11", FromHunks(hunks).String())

	files := FilesFromHunks(hunks)
	require.Len(t, files, 2)
	require.Equal(t, []Hunk{{ID: "1-4"}, {ID: "20-22"}}, files[0].Hunks)
}
