package client

import (
	"encoding/base64"
	"errors"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultSlots is the number of image slots of the add product form.
const DefaultSlots = 5

// ErrSlotRange is returned for a slot index outside the slot list.
var ErrSlotRange = errors.New("image slot out of range")

type slot struct {
	file    StagedFile
	preview string
}

func (s slot) empty() bool {
	return s.file.Data == nil
}

// ImageSlots holds images picked for upload until the form is submitted.
// Nothing here touches the network.
type ImageSlots struct {
	mu    sync.Mutex
	slots []slot
}

// NewImageSlots returns n empty slots. n <= 0 means DefaultSlots.
func NewImageSlots(n int) *ImageSlots {
	if n <= 0 {
		n = DefaultSlots
	}

	return &ImageSlots{slots: make([]slot, n)}
}

// Len returns the number of slots.
func (s *ImageSlots) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.slots)
}

// Stage puts a file into slot i and builds its data URL preview.
// A file already staged in that slot is replaced.
func (s *ImageSlots) Stage(i int, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.slots) {
		return ErrSlotRange
	}

	if data == nil {
		data = []byte{}
	}

	mime := mimetype.Detect(data).String()
	s.slots[i] = slot{
		file:    StagedFile{Name: name, Data: data},
		preview: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
	}

	return nil
}

// Remove empties slot i.
func (s *ImageSlots) Remove(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.slots) {
		return ErrSlotRange
	}

	s.slots[i] = slot{}

	return nil
}

// Files returns the staged files in slot order, skipping empty slots.
func (s *ImageSlots) Files() []StagedFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []StagedFile

	for _, sl := range s.slots {
		if !sl.empty() {
			out = append(out, sl.file)
		}
	}

	return out
}

// Previews returns one data URL per slot, "" for an empty slot.
func (s *ImageSlots) Previews() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.slots))
	for i, sl := range s.slots {
		out[i] = sl.preview
	}

	return out
}

// Reset empties all slots.
func (s *ImageSlots) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.slots {
		s.slots[i] = slot{}
	}
}
