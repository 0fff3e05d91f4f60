package bus

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Configuration errors, returned while a bus is being assembled.
var (
	ErrInvalidRange  = errors.New("invalid segment range")
	ErrOverlap       = errors.New("overlapping segments")
	ErrDuplicateName = errors.New("duplicate segment name")
	ErrBadMirror     = errors.New("mirror target is not mapped")
	ErrNoSegment     = errors.New("no such segment")
	ErrSegmentType   = errors.New("segment has unexpected type")
)

// Integrity errors, raised while the machine runs.
var (
	ErrUnmapped = errors.New("unmapped address")
	ErrDetached = errors.New("no device attached")
)

// Fault is the panic value of an access the memory map cannot serve.
// It means the map itself is wrong, so it is not handled where it happens.
type Fault struct {
	Bus     string
	Segment string
	Addr    uint16
	Write   bool
	Err     error
}

func (f *Fault) Error() string {
	op := "read from"
	if f.Write {
		op = "write to"
	}
	if f.Segment != "" {
		return fmt.Sprintf("bus %s: %s $%04X (%s): %s", f.Bus, op, f.Addr, f.Segment, f.Err)
	}
	return fmt.Sprintf("bus %s: %s $%04X: %s", f.Bus, op, f.Addr, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Recover converts a bus fault panic into *err. Other panics pass through.
// Use it as `defer bus.Recover(&err)`.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if f, ok := r.(*Fault); ok {
		*err = f
		return
	}
	panic(r)
}

type entry struct {
	seg  Segment
	addr uint16
}

// Bus routes 16-bit addresses to the segment that owns them.
type Bus struct {
	name     string
	segments []Segment
	byName   map[string]Segment

	// resolved segment and canonical address per bus address
	cache [0x10000]entry
}

func New(name string) *Bus {
	return &Bus{
		name:   name,
		byName: make(map[string]Segment),
	}
}

func (b *Bus) Name() string {
	return b.name
}

// Add registers a segment. Segments are matched in the order they are added.
func (b *Bus) Add(seg Segment) error {
	min, max := seg.Range()
	if min > max {
		return fmt.Errorf("bus %s: %w: %s [$%04X-$%04X]", b.name, ErrInvalidRange, seg.Name(), min, max)
	}
	if _, ok := b.byName[seg.Name()]; ok {
		return fmt.Errorf("bus %s: %w: %s", b.name, ErrDuplicateName, seg.Name())
	}
	for _, other := range b.segments {
		omin, omax := other.Range()
		if min <= omax && omin <= max {
			return fmt.Errorf("bus %s: %w: %s [$%04X-$%04X] and %s [$%04X-$%04X]",
				b.name, ErrOverlap, seg.Name(), min, max, other.Name(), omin, omax)
		}
	}
	switch s := seg.(type) {
	case *Mirror:
		if err := b.checkMirror(s); err != nil {
			return err
		}
	case *External:
		s.bus = b.name
	}

	b.segments = append(b.segments, seg)
	b.byName[seg.Name()] = seg
	return nil
}

// MustAdd is Add for memory maps fixed at compile time.
func (b *Bus) MustAdd(segs ...Segment) {
	for _, seg := range segs {
		if err := b.Add(seg); err != nil {
			panic(err)
		}
	}
}

func (b *Bus) checkMirror(m *Mirror) error {
	if m.size == 0 {
		return fmt.Errorf("bus %s: %w: %s has zero size", b.name, ErrBadMirror, m.name)
	}
	end := uint32(m.target) + uint32(m.size) - 1
	if end > 0xFFFF {
		return fmt.Errorf("bus %s: %w: %s target overflows", b.name, ErrBadMirror, m.name)
	}
	for addr := uint32(m.target); addr <= end; addr++ {
		seg := b.find(uint16(addr))
		if seg == nil {
			return fmt.Errorf("bus %s: %w: %s target $%04X", b.name, ErrBadMirror, m.name, addr)
		}
		if _, ok := seg.(*Mirror); ok {
			return fmt.Errorf("bus %s: %w: %s target $%04X is itself a mirror", b.name, ErrBadMirror, m.name, addr)
		}
	}
	return nil
}

func (b *Bus) find(addr uint16) Segment {
	for _, seg := range b.segments {
		min, max := seg.Range()
		if addr >= min && addr <= max {
			return seg
		}
	}
	return nil
}

func (b *Bus) resolve(addr uint16, write bool) entry {
	e := b.cache[addr]
	if e.seg != nil {
		return e
	}

	seg := b.find(addr)
	if seg == nil {
		panic(&Fault{Bus: b.name, Addr: addr, Write: write, Err: ErrUnmapped})
	}
	e = entry{seg: seg, addr: addr}
	if m, ok := seg.(*Mirror); ok {
		canonical := m.Translate(addr)
		e = entry{seg: b.find(canonical), addr: canonical}
	}
	b.cache[addr] = e
	return e
}

// Lookup returns the segment and canonical address for addr.
func (b *Bus) Lookup(addr uint16) (Segment, uint16) {
	e := b.resolve(addr, false)
	return e.seg, e.addr
}

func (b *Bus) ReadByte(addr uint16) uint8 {
	e := b.resolve(addr, false)
	data := e.seg.Read(e.addr)
	if h := e.seg.SegmentHooks(); h.AfterRead != nil {
		h.AfterRead(e.addr, data)
	}
	return data
}

// ReadShort reads a little-endian word.
func (b *Bus) ReadShort(addr uint16) uint16 {
	lo := uint16(b.ReadByte(addr))
	hi := uint16(b.ReadByte(addr + 1))
	return lo | hi<<8
}

func (b *Bus) WriteByte(addr uint16, data uint8) {
	e := b.resolve(addr, true)
	e.seg.Write(e.addr, data)
	if h := e.seg.SegmentHooks(); h.AfterWrite != nil {
		h.AfterWrite(e.addr, data)
	}
}

// Read8 and Write8 let a bus stand in wherever a ReadWriter is expected.
func (b *Bus) Read8(addr uint16) uint8 {
	return b.ReadByte(addr)
}

func (b *Bus) Write8(addr uint16, data uint8) {
	b.WriteByte(addr, data)
}

// Segments returns the registered segments in match order.
func (b *Bus) Segments() []Segment {
	return slices.Clone(b.segments)
}

// Names returns the sorted segment names.
func (b *Bus) Names() []string {
	names := maps.Keys(b.byName)
	slices.Sort(names)
	return names
}

// GetSegment returns the named segment as its concrete type.
func GetSegment[T Segment](b *Bus, name string) (T, error) {
	var zero T
	seg, ok := b.byName[name]
	if !ok {
		return zero, fmt.Errorf("bus %s: %w: %s", b.name, ErrNoSegment, name)
	}
	t, ok := seg.(T)
	if !ok {
		return zero, fmt.Errorf("bus %s: %w: %s is %T", b.name, ErrSegmentType, name, seg)
	}
	return t, nil
}
