package protocol

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastercactapus/stompctl/internal/actions"
	"github.com/mastercactapus/stompctl/internal/store"
)

type fakeTarget struct {
	bank      int
	refreshes int
}

func (f *fakeTarget) Bank() int { return f.bank }
func (f *fakeTarget) Refresh()  { f.refreshes++ }

type console struct {
	h   *Handler
	m   *actions.Map
	mem *store.Memory
	tgt *fakeTarget
	out *bytes.Buffer
}

func newConsole() *console {
	c := &console{
		m:   actions.NewMap(),
		mem: store.NewMemory(store.EEPROMSize),
		tgt: &fakeTarget{bank: 1},
		out: &bytes.Buffer{},
	}
	c.h = NewHandler(c.m, store.New(c.mem), c.tgt, c.out)
	return c
}

// send writes input and returns the reply lines it produced.
func (c *console) send(input string) []string {
	c.out.Reset()
	c.h.Write([]byte(input))
	s := strings.TrimRight(c.out.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{"SET", "1", "", "A B"}, Fields(" SET , 1,, A B "))
}

func TestAtoi(t *testing.T) {
	assert.Equal(t, 12, Atoi("12"))
	assert.Equal(t, -3, Atoi("-3"))
	assert.Equal(t, 7, Atoi("7abc"))
	assert.Equal(t, 0, Atoi("abc"))
	assert.Equal(t, 0, Atoi(""))
	assert.Equal(t, 5, Atoi("+5"))
}

func TestSetExample(t *testing.T) {
	c := newConsole()
	assert.Equal(t, []string{"OK,SET"}, c.send("SET,1,1,VOL_,1,1,7,100,0\n"))

	s, err := c.m.Slot(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "VOL ", s.LabelString())
	assert.Equal(t, actions.ControlChange, s.Type)
	assert.EqualValues(t, 1, s.Channel)
	assert.EqualValues(t, 7, s.Number)
	assert.EqualValues(t, 100, s.PressValue)
	assert.EqualValues(t, 0, s.ReleaseValue)
	assert.Equal(t, 1, c.tgt.refreshes)
}

func TestSetOtherBankDoesNotRefresh(t *testing.T) {
	c := newConsole()
	assert.Equal(t, []string{"OK,SET"}, c.send("SET,3,2,AB,2,1,1,0,0\r\n"))
	assert.Equal(t, 0, c.tgt.refreshes)
}

func TestSetClampsInsteadOfRejecting(t *testing.T) {
	c := newConsole()
	assert.Equal(t, []string{"OK,SET"}, c.send("SET, 2 , 6 , LONGLABEL , 9 , 0 , 300 , -4 , x\n"))

	s, _ := c.m.Slot(1, 5)
	assert.Equal(t, "LONG", s.LabelString())
	assert.Equal(t, actions.None, s.Type)
	assert.EqualValues(t, 1, s.Channel)
	assert.EqualValues(t, 127, s.Number)
	assert.EqualValues(t, 0, s.PressValue)
	assert.EqualValues(t, 0, s.ReleaseValue)
}

func TestSetErrorsLeaveStateAlone(t *testing.T) {
	c := newConsole()
	before := c.m.Slots()

	assert.Equal(t, []string{"ERR,FORMAT"}, c.send("SET,1,1,VOL,1,1,7,100\n"))
	assert.Equal(t, []string{"ERR,FORMAT"}, c.send("SET,1,1,VOL,1,1,7,100,0,9\n"))
	assert.Equal(t, []string{"ERR,FORMAT"}, c.send("SET\n"))
	assert.Equal(t, []string{"ERR,INDEX"}, c.send("SET,0,1,VOL,1,1,7,100,0\n"))
	assert.Equal(t, []string{"ERR,INDEX"}, c.send("SET,5,1,VOL,1,1,7,100,0\n"))
	assert.Equal(t, []string{"ERR,INDEX"}, c.send("SET,1,7,VOL,1,1,7,100,0\n"))
	assert.Equal(t, []string{"ERR,INDEX"}, c.send("SET,x,1,VOL,1,1,7,100,0\n"))

	assert.Equal(t, before, c.m.Slots())
	assert.Equal(t, 0, c.tgt.refreshes)
}

func TestSetResetsToggle(t *testing.T) {
	c := newConsole()
	c.send("SET,1,3,DLY,5,1,20,127,0\n")
	c.m.Toggle(0, 2)
	require.True(t, c.m.Toggled(0, 2))

	c.send("SET,1,3,DLY,5,1,20,127,0\n")
	assert.False(t, c.m.Toggled(0, 2))
}

func TestUnknownAndBlank(t *testing.T) {
	c := newConsole()
	assert.Equal(t, []string{"ERR,UNKNOWN"}, c.send("FOO,1\n"))
	assert.Equal(t, []string{"ERR,UNKNOWN"}, c.send("set,1,1,a,1,1,1,1,1\n"))
	assert.Nil(t, c.send("\n   \r\n"))
	assert.Equal(t, []string{"OK,HELP,SET,SAVE,LOAD,DUMP"}, c.send("HELP\n"))
}

func TestLineTooLong(t *testing.T) {
	c := newConsole()
	long := "SET,1,1," + strings.Repeat("A", MaxLine)
	assert.Equal(t, []string{"ERR,LINE_TOO_LONG"}, c.send(long+"\n"))

	// the buffer is clean again for the next line
	assert.Equal(t, []string{"OK,SET"}, c.send("SET,1,1,OK,1,1,1,1,1\n"))

	exact := "SET,1,2,OK,1,1,1,1,1" + strings.Repeat(" ", MaxLine-len("SET,1,2,OK,1,1,1,1,1"))
	require.Len(t, exact, MaxLine)
	assert.Equal(t, []string{"OK,SET"}, c.send(exact+"\n"))
}

func TestCarriageReturnOnlyStrippedAtEnd(t *testing.T) {
	var a LineAssembler
	var line string
	var st LineStatus
	for _, c := range []byte("A\rB\r\n") {
		line, st = a.Feed(c)
	}
	assert.Equal(t, Complete, st)
	assert.Equal(t, "A\rB", line)

	c := newConsole()
	assert.Equal(t, []string{"OK,SET"}, c.send("SET,1,1,A\rB,1,1,7,100,0\r\n"))
	s, _ := c.m.Slot(0, 0)
	assert.Equal(t, "A B ", s.LabelString())

	exact := "SET,1,2,OK,1,1,1,1,1" + strings.Repeat(" ", MaxLine-len("SET,1,2,OK,1,1,1,1,1"))
	assert.Equal(t, []string{"OK,SET"}, c.send(exact+"\r\n"))
	assert.Equal(t, []string{"ERR,LINE_TOO_LONG"}, c.send(exact+"\rX\n"))
}

func TestSplitInput(t *testing.T) {
	c := newConsole()
	assert.Nil(t, c.send("SET,1,1,"))
	assert.Equal(t, []string{"OK,SET", "OK,SAVE"}, c.send("VOL_,1,1,7,100,0\r\nSAVE\n"))
}

func TestLoadWithoutImage(t *testing.T) {
	c := newConsole()
	c.send("SET,1,1,VOL_,1,1,7,100,0\n")
	before := c.m.Slots()
	refreshes := c.tgt.refreshes

	assert.Equal(t, []string{"ERR,NO_CONFIG"}, c.send("LOAD\n"))
	assert.Equal(t, before, c.m.Slots())
	assert.Equal(t, refreshes, c.tgt.refreshes)
}

func TestSaveLoad(t *testing.T) {
	c := newConsole()
	c.send("SET,2,4,FUZZ,1,2,3,4,5\n")
	assert.Equal(t, []string{"OK,SAVE"}, c.send("SAVE\n"))

	c.send("SET,2,4,NONE,0,1,0,0,0\n")
	assert.Equal(t, []string{"OK,LOAD"}, c.send("LOAD\n"))
	s, _ := c.m.Slot(1, 3)
	assert.Equal(t, "FUZZ", s.LabelString())
	assert.Equal(t, 1, c.tgt.refreshes)
}

func TestDumpRoundTrip(t *testing.T) {
	c := newConsole()
	var script []string
	for b := 1; b <= actions.Banks; b++ {
		for sw := 1; sw <= actions.Switches; sw++ {
			script = append(script, SetLine(b, sw, actions.NewSlot(
				strings.Repeat(string(rune('a'+sw)), sw%4)+"_", (b*sw)%7, sw+b, b*sw, 127-b, sw)))
		}
	}
	for _, l := range script {
		require.Equal(t, []string{"OK,SET"}, c.send(l+"\n"))
	}
	assert.Equal(t, []string{"OK,SAVE"}, c.send("SAVE\n"))

	// power cycle: a fresh console on the same EEPROM bytes
	mem := store.NewMemory(store.EEPROMSize)
	mem.WriteAt(c.mem.Bytes(), 0)
	c2 := &console{m: actions.NewMap(), mem: mem, tgt: &fakeTarget{bank: 1}, out: &bytes.Buffer{}}
	c2.h = NewHandler(c2.m, store.New(mem), c2.tgt, c2.out)

	assert.Equal(t, []string{"OK,LOAD"}, c2.send("LOAD\n"))
	dump := c2.send("DUMP\n")
	require.Len(t, dump, 25)
	assert.Equal(t, "OK,DUMP", dump[24])
	assert.Equal(t, script, dump[:24])
}

func TestLoadCorruptLabelDumpsCleanly(t *testing.T) {
	g := actions.DefaultSlots()
	g[0][0].Label = [actions.LabelSize]byte{'A', ',', '\n', 'B'}
	c := newConsole()
	c.mem.WriteAt(store.Encode(g), 0)

	assert.Equal(t, []string{"OK,LOAD"}, c.send("LOAD\n"))
	dump := c.send("DUMP\n")
	require.Len(t, dump, 25)
	assert.Equal(t, "SET,1,1,A__B,0,1,0,0,0", dump[0])

	for _, l := range dump[:24] {
		require.Equal(t, []string{"OK,SET"}, c.send(l+"\n"))
	}
	assert.Equal(t, dump, c.send("DUMP\n"))
}

func TestDumpDefaults(t *testing.T) {
	c := newConsole()
	dump := c.send("DUMP\n")
	require.Len(t, dump, 25)
	assert.Equal(t, "SET,1,1,----,0,1,0,0,0", dump[0])
	assert.Equal(t, "SET,1,5,BNK-,4,1,0,0,0", dump[4])
	assert.Equal(t, "SET,4,6,BNK+,3,1,0,0,0", dump[23])
}
