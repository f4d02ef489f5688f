package git

import "strings"

// FileStatus classifies a path's relationship to the repository history.
type FileStatus int

const (
	// StatusClean matches HEAD with no pending changes.
	StatusClean FileStatus = iota
	// StatusIgnored matches an ignore pattern.
	StatusIgnored
	// StatusModified has unstaged working-tree changes.
	StatusModified
	// StatusStaged has changes recorded in the index.
	StatusStaged
	// StatusUntracked is not known to the repository.
	StatusUntracked
	// StatusNotInRepo lies outside any repository working directory.
	StatusNotInRepo
)

func (s FileStatus) String() string {
	switch s {
	case StatusClean:
		return "Clean"
	case StatusIgnored:
		return "Ignored"
	case StatusModified:
		return "Modified"
	case StatusStaged:
		return "Staged"
	case StatusUntracked:
		return "Untracked"
	case StatusNotInRepo:
		return "NotInRepo"
	default:
		return "Unknown"
	}
}

// Deletable reports whether a path in this state may be destroyed: it is
// either reproducible from history (Clean), explicitly disposable (Ignored),
// or not under version control at all (NotInRepo).
func (s FileStatus) Deletable() bool {
	return s == StatusClean || s == StatusIgnored || s == StatusNotInRepo
}

// StatusIndex maps repository-relative slash-separated paths to their
// classification. It is built once per run and read-only afterwards.
type StatusIndex map[string]FileStatus

// statusEntry is one record of `git status --porcelain=v2 -z` output.
type statusEntry struct {
	path   string
	status FileStatus
}

// classifyEntry maps a porcelain v2 record kind plus its XY field to a
// FileStatus. Precedence: Ignored, then index changes (Staged), then
// working-tree changes (Modified), then Untracked. Anything the porcelain
// format does not let us categorize falls back to Clean; unmerged entries
// count as Modified since the working tree differs from HEAD.
func classifyEntry(kind byte, xy string) FileStatus {
	switch kind {
	case '!':
		return StatusIgnored
	case '?':
		return StatusUntracked
	case 'u':
		return StatusModified
	case '1', '2':
		if len(xy) != 2 {
			return StatusClean
		}
		if xy[0] != '.' {
			return StatusStaged
		}
		if xy[1] != '.' {
			return StatusModified
		}
		return StatusClean
	default:
		return StatusClean
	}
}

// parseStatusRecords parses NUL-terminated porcelain v2 output. Rename and
// copy records carry the original path as an extra NUL-separated field,
// which is consumed and dropped; the verdict attaches to the current path.
func parseStatusRecords(raw string) []statusEntry {
	records := strings.Split(raw, "\x00")
	entries := make([]statusEntry, 0, len(records))

	for i := 0; i < len(records); i++ {
		record := records[i]
		if record == "" || strings.HasPrefix(record, "#") {
			continue
		}

		kind := record[0]
		var xy, path string
		switch kind {
		case '1':
			// 1 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <path>
			fields := strings.SplitN(record, " ", 9)
			if len(fields) < 9 {
				continue
			}
			xy, path = fields[1], fields[8]
		case '2':
			// 2 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <Xscore> <path> NUL <origPath>
			fields := strings.SplitN(record, " ", 10)
			if len(fields) < 10 {
				continue
			}
			xy, path = fields[1], fields[9]
			i++ // skip the origin path record
		case 'u':
			// u <XY> <sub> <m1> <m2> <m3> <mW> <h1> <h2> <h3> <path>
			fields := strings.SplitN(record, " ", 11)
			if len(fields) < 11 {
				continue
			}
			xy, path = fields[1], fields[10]
		case '?', '!':
			fields := strings.SplitN(record, " ", 2)
			if len(fields) < 2 {
				continue
			}
			path = fields[1]
		default:
			continue
		}

		entries = append(entries, statusEntry{path: path, status: classifyEntry(kind, xy)})
	}

	return entries
}
