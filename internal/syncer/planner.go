package syncer

import (
	"sort"

	"github.com/strongclose/media-offload/internal/attachment"
)

// PrimaryName is the reserved size name for an attachment's primary
// file.
const PrimaryName = "full"

// PlannedFile is one file an executor pass should upload.
type PlannedFile struct {
	Name    string
	RelPath string
}

// Planner selects sync candidates and decides which files of an
// attachment still need uploading.
type Planner struct {
	store attachment.Store
	files *attachment.Files
}

func NewPlanner(store attachment.Store, files *attachment.Files) *Planner {
	return &Planner{store: store, files: files}
}

// SelectCandidates returns one page of the mode's backlog, ordered by
// ascending ID. Repeating a page with the same offset reprocesses the
// same set.
func (p *Planner) SelectCandidates(mode Mode, offset, limit int) ([]*attachment.Attachment, error) {
	if mode == ModeIncremental {
		return p.store.ListSynced(offset, limit)
	}
	return p.store.ListUnsynced(offset, limit)
}

// PlanFiles computes the upload set for one attachment. Full mode plans
// the primary unconditionally plus every derivative with a local file;
// incremental mode plans only derivatives missing from the record. The
// primary always comes first, derivatives in sorted name order.
func (p *Planner) PlanFiles(att *attachment.Attachment, sizes map[string]attachment.Size, rec *Record, mode Mode) []PlannedFile {
	var plan []PlannedFile

	if mode == ModeFull {
		plan = append(plan, PlannedFile{Name: PrimaryName, RelPath: att.FilePath})
	}

	if !att.IsImage() {
		return plan
	}

	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if mode == ModeIncremental && rec.HasSize(name) {
			continue
		}
		rel := att.SizePath(sizes[name])
		if !p.files.Exists(rel) {
			continue
		}
		plan = append(plan, PlannedFile{Name: name, RelPath: rel})
	}
	return plan
}
