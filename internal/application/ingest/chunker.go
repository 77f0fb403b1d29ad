package ingest

import (
	"regexp"
	"strings"
)

// chunkSeparators in preference order; a chunk boundary snaps back to the
// latest separator inside the window before falling through to a hard cut.
var chunkSeparators = []string{"\n\n", "\n", ". ", " "}

// sectionNumberRe picks section references out of a chunk so retrieval
// results can cite them.
var sectionNumberRe = regexp.MustCompile(`(?i)(?:section|article|clause)\s+(\d+[.\d]*)`)

// unknownSectionMarker tags chunks where no section reference was found.
const unknownSectionMarker = "unknown"

// splitText splits text into chunks of at most size characters with the
// given overlap, preferring to break on paragraph, line, sentence, and
// word boundaries in that order.
func splitText(text string, size, overlap int) []string {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	if len(text) <= size {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			end = len(text)
		} else {
			end = snapToSeparator(text, start, end)
		}

		chunk := text[start:end]
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(text) {
			break
		}

		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// snapToSeparator moves the cut point back to the end of the latest
// separator occurrence in the second half of the window.  Falling below
// the window midpoint would shrink chunks too aggressively, so a hard cut
// wins instead.
func snapToSeparator(text string, start, end int) int {
	floor := start + (end-start)/2
	for _, sep := range chunkSeparators {
		idx := strings.LastIndex(text[floor:end], sep)
		if idx >= 0 {
			return floor + idx + len(sep)
		}
	}
	return end
}

// detectSections returns the section numbers referenced in a chunk, or
// the unknown marker when there are none.
func detectSections(chunk string) []string {
	matches := sectionNumberRe.FindAllStringSubmatch(chunk, -1)
	if len(matches) == 0 {
		return []string{unknownSectionMarker}
	}
	sections := make([]string, 0, len(matches))
	for _, m := range matches {
		sections = append(sections, m[1])
	}
	return sections
}
