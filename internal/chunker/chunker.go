// Package chunker splits item content into bounded, overlapping fragments
// for embedding.
package chunker

import "strings"

// defaultSeparators are tried in order, coarsest first.
var defaultSeparators = []string{"\n\n", "\n", ". ", " "}

// Splitter splits text recursively on a separator hierarchy, producing
// chunks of at most chunkSize characters with overlap characters carried
// between neighbours.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// New creates a Splitter. Non-positive arguments fall back to the defaults
// used for catalog ingestion (500/50).
func New(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 50
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

// Split splits text into chunks. Empty or whitespace-only input yields nil.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	if len(separators) == 0 {
		return s.hardSplit(text)
	}

	sep := separators[0]
	pieces := strings.Split(text, sep)
	if len(pieces) == 1 {
		// Separator absent; try the next finer one.
		return s.split(text, separators[1:])
	}

	// Oversized pieces are split further before merging.
	var units []string
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if len(piece) > s.chunkSize {
			units = append(units, s.split(piece, separators[1:])...)
		} else {
			units = append(units, piece)
		}
	}

	return s.merge(units, sep)
}

// merge greedily joins units into chunks of at most chunkSize, carrying
// trailing units up to overlap characters into the next chunk.
func (s *Splitter) merge(units []string, sep string) []string {
	joiner := sep

	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, joiner))

		// Keep a tail of units within the overlap budget.
		var tail []string
		tailLen := 0
		for i := len(current) - 1; i >= 0; i-- {
			n := len(current[i])
			if tailLen+n > s.overlap {
				break
			}
			tail = append([]string{current[i]}, tail...)
			tailLen += n + len(joiner)
		}
		current = tail
		currentLen = tailLen
	}

	for _, u := range units {
		if currentLen > 0 && currentLen+len(joiner)+len(u) > s.chunkSize {
			flush()
		}
		current = append(current, u)
		currentLen += len(u)
		if len(current) > 1 {
			currentLen += len(joiner)
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, joiner))
	}

	return chunks
}

// hardSplit cuts text at fixed offsets when no separator applies.
func (s *Splitter) hardSplit(text string) []string {
	var chunks []string
	step := s.chunkSize - s.overlap
	for start := 0; start < len(text); start += step {
		end := start + s.chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}
