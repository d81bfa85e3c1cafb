package search

import (
	"encoding/binary"
	"slices"

	"github.com/zeebo/xxh3"
)

// tabuList remembers the touched sets of the most recent moves.
//
// Membership is decided by the set of touched association ids only, never by
// the values a move writes. Entries are hashed with xxh3 and compared exactly
// on a hash hit.
type tabuList struct {
	window  int
	entries []tabuEntry // ring, oldest at head once full
	head    int
	counts  map[uint64]int
	scratch []byte
}

type tabuEntry struct {
	hash    uint64
	touched []int
}

// newTabuList creates a tabu list holding at most window entries. A window
// of zero disables the list.
func newTabuList(window int) *tabuList {
	return &tabuList{
		window:  window,
		entries: make([]tabuEntry, 0, window),
		counts:  make(map[uint64]int, window),
	}
}

// contains reports whether touched matches a remembered move.
func (l *tabuList) contains(touched []int) bool {
	if l.window == 0 {
		return false
	}
	h := l.hash(touched)
	if l.counts[h] == 0 {
		return false
	}
	for _, e := range l.entries {
		if e.hash == h && slices.Equal(e.touched, touched) {
			return true
		}
	}

	return false
}

// push remembers touched, evicting the oldest entry when the list is full.
// touched must not be modified afterwards.
func (l *tabuList) push(touched []int) {
	if l.window == 0 {
		return
	}
	e := tabuEntry{hash: l.hash(touched), touched: touched}
	l.counts[e.hash]++

	if len(l.entries) < l.window {
		l.entries = append(l.entries, e)
		return
	}

	old := l.entries[l.head]
	if l.counts[old.hash]--; l.counts[old.hash] == 0 {
		delete(l.counts, old.hash)
	}
	l.entries[l.head] = e
	l.head = (l.head + 1) % l.window
}

func (l *tabuList) len() int {
	return len(l.entries)
}

func (l *tabuList) hash(touched []int) uint64 {
	buf := l.scratch[:0]
	for _, id := range touched {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(id)) //nolint:gosec // G115: ids are non-negative
	}
	l.scratch = buf

	return xxh3.Hash(buf)
}
