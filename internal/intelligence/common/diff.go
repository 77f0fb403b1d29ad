package common

// DiffOp is the kind of a single diff entry.
type DiffOp int

const (
	// OpEqual marks a token present in both sequences.
	OpEqual DiffOp = iota
	// OpDelete marks a token present only in the first sequence.
	OpDelete
	// OpInsert marks a token present only in the second sequence.
	OpInsert
)

// DiffEntry pairs an op with the token it applies to.
type DiffEntry struct {
	Op    DiffOp `json:"op"`
	Token string `json:"token"`
}

// Marker renders the entry the way a word diff is conventionally printed:
// "- x" for removals, "+ x" for additions, "  x" for unchanged tokens.
func (e DiffEntry) Marker() string {
	switch e.Op {
	case OpDelete:
		return "- " + e.Token
	case OpInsert:
		return "+ " + e.Token
	default:
		return "  " + e.Token
	}
}

// Diff computes a token-level diff between two sequences using the matching
// blocks of the shared sequence matcher.  Deletions are emitted before
// insertions within each replaced region, matching the conventional diff
// ordering.
func Diff(a, b []string) []DiffEntry {
	blocks := MatchingBlocks(a, b)

	out := make([]DiffEntry, 0, len(a)+len(b))
	ai, bi := 0, 0
	for _, blk := range blocks {
		for ; ai < blk.A; ai++ {
			out = append(out, DiffEntry{Op: OpDelete, Token: a[ai]})
		}
		for ; bi < blk.B; bi++ {
			out = append(out, DiffEntry{Op: OpInsert, Token: b[bi]})
		}
		for k := 0; k < blk.Size; k++ {
			out = append(out, DiffEntry{Op: OpEqual, Token: a[ai]})
			ai++
			bi++
		}
	}
	for ; ai < len(a); ai++ {
		out = append(out, DiffEntry{Op: OpDelete, Token: a[ai]})
	}
	for ; bi < len(b); bi++ {
		out = append(out, DiffEntry{Op: OpInsert, Token: b[bi]})
	}
	return out
}

// LineChange tags a single line in a line-level diff.
type LineChange struct {
	Kind string `json:"kind"` // "added" | "removed" | "unchanged"
	Line string `json:"line"`
}

// diffContextLines is how many unchanged lines are kept on each side of a
// changed region, matching unified-diff context.
const diffContextLines = 3

// DiffLines computes a line-level diff between two texts, truncated to at
// most maxLines entries (0 means no cap).  Only changed lines and up to
// diffContextLines of surrounding context are emitted; long unchanged runs
// are dropped before the cap applies, so the cap cannot be consumed by
// identical regions ahead of a late change.
func DiffLines(text1, text2 string, maxLines int) []LineChange {
	entries := Diff(splitLines(text1), splitLines(text2))

	keep := make([]bool, len(entries))
	for i, e := range entries {
		if e.Op == OpEqual {
			continue
		}
		lo := i - diffContextLines
		if lo < 0 {
			lo = 0
		}
		hi := i + diffContextLines
		if hi > len(entries)-1 {
			hi = len(entries) - 1
		}
		for j := lo; j <= hi; j++ {
			keep[j] = true
		}
	}

	out := []LineChange{}
	for i, e := range entries {
		if !keep[i] {
			continue
		}
		if maxLines > 0 && len(out) >= maxLines {
			break
		}
		switch e.Op {
		case OpDelete:
			out = append(out, LineChange{Kind: "removed", Line: e.Token})
		case OpInsert:
			out = append(out, LineChange{Kind: "added", Line: e.Token})
		default:
			out = append(out, LineChange{Kind: "unchanged", Line: e.Token})
		}
	}
	return out
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
