package ownership

import (
	"strings"

	"stackit.dev/vbranch/internal/git"
)

// Hunk identifies one hunk of a file
type Hunk struct {
	ID     string
	Locked bool
}

// File is a changed file together with the hunks it is made of
type File struct {
	Path   string
	Locked bool
	Hunks  []Hunk
}

// FilesToOwnership serializes files as claims, one line per file
func FilesToOwnership(files []File) string {
	lines := make([]string, 0, len(files))
	for _, f := range files {
		ids := make([]string, 0, len(f.Hunks))
		for _, h := range f.Hunks {
			ids = append(ids, h.ID)
		}
		lines = append(lines, Claim{FilePath: f.Path, HunkIDs: ids}.String())
	}
	return strings.Join(lines, "\n")
}

// FilesFromHunks groups diff hunks by file, in diff order
func FilesFromHunks(hunks []git.Hunk) []File {
	var files []File
	index := make(map[string]int)
	for _, h := range hunks {
		i, ok := index[h.File]
		if !ok {
			i = len(files)
			index[h.File] = i
			files = append(files, File{Path: h.File})
		}
		files[i].Hunks = append(files[i].Hunks, Hunk{ID: h.ID()})
	}
	return files
}

// FromHunks builds the ownership record claiming every given diff hunk
func FromHunks(hunks []git.Hunk) Ownership {
	var o Ownership
	for _, f := range FilesFromHunks(hunks) {
		c := Claim{FilePath: f.Path}
		for _, h := range f.Hunks {
			c.HunkIDs = append(c.HunkIDs, h.ID)
		}
		o.Claims = append(o.Claims, c)
	}
	return o
}
