// Package linebuffer provides a minimal in-memory editing buffer satisfying
// the session.Buffer contract. It backs the demo CLI and tests; real hosts
// supply their own buffer.
package linebuffer

import (
	"errors"
	"fmt"
)

// Buffer is a rune-addressed text buffer with a cursor and an optional
// selected region.
type Buffer struct {
	runes  []rune
	cursor int
	// region bounds in runes; start == -1 means no selection.
	regionStart int
	regionEnd   int
}

// New creates a buffer holding text with the cursor at the end and no
// selection.
func New(text string) *Buffer {
	runes := []rune(text)
	return &Buffer{
		runes:       runes,
		cursor:      len(runes),
		regionStart: -1,
		regionEnd:   -1,
	}
}

// String returns the buffer contents.
func (b *Buffer) String() string { return string(b.runes) }

// Cursor returns the cursor's rune offset.
func (b *Buffer) Cursor() int { return b.cursor }

// SetCursor moves the cursor, clamped to the buffer bounds.
func (b *Buffer) SetCursor(offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.runes) {
		offset = len(b.runes)
	}
	b.cursor = offset
}

// Select marks [start, end) as the active region.
func (b *Buffer) Select(start, end int) error {
	if start < 0 || end > len(b.runes) || start > end {
		return fmt.Errorf("linebuffer: invalid region [%d, %d) in %d runes", start, end, len(b.runes))
	}
	b.regionStart, b.regionEnd = start, end
	return nil
}

// ClearRegion drops the active selection.
func (b *Buffer) ClearRegion() {
	b.regionStart, b.regionEnd = -1, -1
}

// Region returns the selected text, if any.
func (b *Buffer) Region() (string, bool) {
	if b.regionStart < 0 {
		return "", false
	}
	return string(b.runes[b.regionStart:b.regionEnd]), true
}

// TextBeforeCursor returns up to limit runes preceding the cursor; limit <= 0
// means no bound.
func (b *Buffer) TextBeforeCursor(limit int) string {
	start := 0
	if limit > 0 && b.cursor-limit > 0 {
		start = b.cursor - limit
	}
	return string(b.runes[start:b.cursor])
}

// ReplaceRegion swaps the selected region for text, clears the selection, and
// leaves the cursor at the end of the replacement.
func (b *Buffer) ReplaceRegion(text string) error {
	if b.regionStart < 0 {
		return errors.New("linebuffer: no region selected")
	}
	replacement := []rune(text)

	out := make([]rune, 0, len(b.runes)-(b.regionEnd-b.regionStart)+len(replacement))
	out = append(out, b.runes[:b.regionStart]...)
	out = append(out, replacement...)
	out = append(out, b.runes[b.regionEnd:]...)

	b.cursor = b.regionStart + len(replacement)
	b.runes = out
	b.ClearRegion()
	return nil
}

// InsertAtCursor inserts text at the cursor and advances past it.
func (b *Buffer) InsertAtCursor(text string) error {
	insertion := []rune(text)

	out := make([]rune, 0, len(b.runes)+len(insertion))
	out = append(out, b.runes[:b.cursor]...)
	out = append(out, insertion...)
	out = append(out, b.runes[b.cursor:]...)

	b.runes = out
	b.cursor += len(insertion)
	return nil
}

// DeleteBeforeCursor removes n runes preceding the cursor.
func (b *Buffer) DeleteBeforeCursor(n int) error {
	if n < 0 || n > b.cursor {
		return fmt.Errorf("linebuffer: cannot delete %d runes before cursor at %d", n, b.cursor)
	}
	out := make([]rune, 0, len(b.runes)-n)
	out = append(out, b.runes[:b.cursor-n]...)
	out = append(out, b.runes[b.cursor:]...)

	b.runes = out
	b.cursor -= n
	return nil
}
