package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastercactapus/stompctl/internal/actions"
)

func configured() *actions.Map {
	m := actions.NewMap()
	for b := 0; b < actions.Banks; b++ {
		for sw := 0; sw < actions.Switches; sw++ {
			m.Set(b, sw, actions.NewSlot("S_"+string(rune('A'+b*6+sw)), (b+sw)%7, b*4+sw+1, b*10+sw, 100+sw, sw))
		}
	}
	return m
}

func TestImageLayout(t *testing.T) {
	m := actions.NewMap()
	require.NoError(t, m.Set(0, 1, actions.NewSlot("VOL_", int(actions.ControlChange), 3, 7, 100, 5)))
	mem := NewMemory(EEPROMSize)
	require.NoError(t, New(mem).Save(m))

	img := mem.Bytes()
	assert.Equal(t, []byte("STMP"), img[:4])
	rec := img[4+RecordSize : 4+2*RecordSize]
	assert.Equal(t, []byte{'V', 'O', 'L', ' ', 1, 3, 7, 100, 5}, rec)
	assert.Equal(t, byte(Erased), img[ImageSize])
	assert.Equal(t, 220, ImageSize)
}

func TestRoundTrip(t *testing.T) {
	src := configured()
	mem := NewMemory(EEPROMSize)
	require.NoError(t, New(mem).Save(src))

	dst := actions.NewMap()
	require.NoError(t, New(mem).Load(dst))
	assert.Equal(t, src.Slots(), dst.Slots())
}

func TestLoadErasedLeavesMapAlone(t *testing.T) {
	m := configured()
	before := m.Slots()
	err := New(NewMemory(EEPROMSize)).Load(m)
	assert.ErrorIs(t, err, ErrNoConfig)
	assert.Equal(t, before, m.Slots())
}

func TestLoadShortImage(t *testing.T) {
	mem := NewMemory(100)
	copy(mem.cells, Magic[:])
	m := actions.NewMap()
	assert.ErrorIs(t, New(mem).Load(m), ErrShortImage)
	assert.Equal(t, actions.DefaultSlots(), m.Slots())
}

func TestLoadResetsToggles(t *testing.T) {
	m := actions.NewMap()
	require.NoError(t, m.Set(0, 0, actions.NewSlot("T", int(actions.ControlChangeToggle), 1, 1, 1, 0)))
	mem := NewMemory(EEPROMSize)
	require.NoError(t, New(mem).Save(m))

	m.Toggle(0, 0)
	require.NoError(t, New(mem).Load(m))
	assert.False(t, m.Toggled(0, 0))
}

func TestDecodeSanitizes(t *testing.T) {
	img := Encode(actions.DefaultSlots())
	rec := img[len(Magic) : len(Magic)+RecordSize]
	copy(rec, []byte{0xFF, 0x00, 'A', 0xFF, 99, 0, 200, 128, 255})

	g, err := Decode(img)
	require.NoError(t, err)
	s := g[0][0]
	assert.Equal(t, "  A ", s.LabelString())
	assert.Equal(t, actions.None, s.Type)
	assert.EqualValues(t, 1, s.Channel)
	assert.EqualValues(t, 127, s.Number)
	assert.EqualValues(t, 127, s.PressValue)
	assert.EqualValues(t, 127, s.ReleaseValue)

	rec[5] = 40
	g, err = Decode(img)
	require.NoError(t, err)
	assert.EqualValues(t, 16, g[0][0].Channel)

	copy(rec, []byte{'A', ',', '\n', 'B'})
	g, err = Decode(img)
	require.NoError(t, err)
	assert.Equal(t, "A  B", g[0][0].LabelString())

	copy(rec, []byte{'_', '\r', 0xC3, 0xA9})
	g, err = Decode(img)
	require.NoError(t, err)
	assert.Equal(t, "    ", g[0][0].LabelString())
}

func TestFileEEPROM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "eeprom.bin")
	f := NewFile(path)

	m := actions.NewMap()
	assert.ErrorIs(t, New(f).Load(m), ErrNoConfig)

	src := configured()
	require.NoError(t, New(f).Save(src))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, EEPROMSize, info.Size())

	require.NoError(t, New(NewFile(path)).Load(m))
	assert.Equal(t, src.Slots(), m.Slots())
}

func TestMemoryWriteOutOfRange(t *testing.T) {
	mem := NewMemory(8)
	_, err := mem.WriteAt([]byte{1, 2, 3}, 6)
	assert.Error(t, err)
	assert.Error(t, New(mem).Save(actions.NewMap()))
}
