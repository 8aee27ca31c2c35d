// Package store persists the slot grid in the controller's EEPROM layout:
//
//	offset 0   magic "STMP"
//	offset 4   24 records of 9 bytes, bank major, switch minor
//	           [label0..3][type][channel][number][press][release]
package store

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mastercactapus/stompctl/internal/actions"
)

var (
	ErrNoConfig   = errors.New("no stored configuration")
	ErrShortImage = errors.New("short eeprom image")
)

var Magic = [4]byte{'S', 'T', 'M', 'P'}

const (
	RecordSize = actions.LabelSize + 5
	SlotCount  = actions.Banks * actions.Switches
	ImageSize  = len(Magic) + SlotCount*RecordSize
)

// Store saves and loads a Map through an EEPROM.
type Store struct {
	mem EEPROM
}

func New(mem EEPROM) *Store {
	return &Store{mem: mem}
}

// Save writes the magic marker and every slot of m.
func (s *Store) Save(m *actions.Map) error {
	img := Encode(m.Slots())
	if _, err := s.mem.WriteAt(img, 0); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Load replaces the contents of m with the stored image. m is left alone
// unless the whole image decodes.
func (s *Store) Load(m *actions.Map) error {
	img := make([]byte, ImageSize)
	n, err := s.mem.ReadAt(img, 0)
	if n < len(Magic) {
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}
		return ErrShortImage
	}
	g, err := Decode(img[:n])
	if err != nil {
		return err
	}
	m.Replace(g)
	return nil
}

// Encode renders a grid into its byte image.
func Encode(g [actions.Banks][actions.Switches]actions.Slot) []byte {
	img := make([]byte, 0, ImageSize)
	img = append(img, Magic[:]...)
	for b := range g {
		for _, sl := range g[b] {
			img = append(img, sl.Label[:]...)
			img = append(img, byte(sl.Type), sl.Channel, sl.Number, sl.PressValue, sl.ReleaseValue)
		}
	}
	return img
}

// Decode parses a byte image, sanitizing every record.
func Decode(img []byte) (g [actions.Banks][actions.Switches]actions.Slot, err error) {
	if len(img) < len(Magic) || !bytes.Equal(img[:len(Magic)], Magic[:]) {
		return g, ErrNoConfig
	}
	if len(img) < ImageSize {
		return g, ErrShortImage
	}

	rec := img[len(Magic):]
	for b := range g {
		for sw := range g[b] {
			g[b][sw] = decodeRecord(rec[:RecordSize])
			rec = rec[RecordSize:]
		}
	}
	return g, nil
}

func decodeRecord(r []byte) actions.Slot {
	var sl actions.Slot
	copy(sl.Label[:], r[:actions.LabelSize])
	p := r[actions.LabelSize:]
	sl.Type = actions.ActionType(p[0])
	sl.Channel = p[1]
	sl.Number = p[2]
	sl.PressValue = p[3]
	sl.ReleaseValue = p[4]
	return sl.Sanitize()
}
