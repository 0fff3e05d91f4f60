package cpu

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"golang.org/x/exp/maps"
)

// Test_CPU_SingleStepTest runs the per-opcode JSON suites from
// SingleStepTests/65x02 found in SINGLE_STEP_TEST_DIR.
func Test_CPU_SingleStepTest(t *testing.T) {
	t.Parallel()

	type cpuState struct {
		PC uint16 `json:"pc"`
		S  uint8  `json:"s"`
		A  uint8  `json:"a"`
		X  uint8  `json:"x"`
		Y  uint8  `json:"y"`
		P  uint8  `json:"p"`

		// element[0] is address, element[1] is value
		RAM [][]uint16 `json:"ram"`
	}

	type testInstance struct {
		Name    string   `json:"name"`
		Initial cpuState `json:"initial"`
		Final   cpuState `json:"final"`

		// element[0] is address, element[1] is value, element[2] is "read" or "write"
		Cycles [][]any `json:"cycles"`
	}

	dir := os.Getenv("SINGLE_STEP_TEST_DIR")
	if dir == "" {
		t.Skip("skipping test because SINGLE_STEP_TEST_DIR is not set")
		return
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	mem := newStrictMem(t)
	doTest := func(t *testing.T, test testInstance) {
		mem.reset()
		for _, addrVal := range test.Initial.RAM {
			mem.set(addrVal[0], uint8(addrVal[1]))
		}
		for _, cyc := range test.Cycles {
			op := cyc[2].(string)
			if op != "write" {
				continue
			}
			mem.allow(uint16(cyc[0].(float64)), uint8(cyc[1].(float64)))
		}

		c := NewCPU(mem)
		c.SetRegisters(Registers{
			PC: test.Initial.PC,
			SP: test.Initial.S,
			A:  test.Initial.A,
			X:  test.Initial.X,
			Y:  test.Initial.Y,
			P:  test.Initial.P,
		})

		n, err := c.Step()
		if err != nil {
			t.Fatalf("%s: %v", test.Name, err)
		}

		expected := Registers{
			PC: test.Final.PC,
			SP: test.Final.S,
			A:  test.Final.A,
			X:  test.Final.X,
			Y:  test.Final.Y,
			P:  test.Final.P,
		}
		if got := c.Registers(); got != expected {
			t.Fatalf("%s: expected %s, got %s", test.Name, expected, got)
		}
		if n != len(test.Cycles) {
			t.Fatalf("%s: expected %d cycles, got %d", test.Name, len(test.Cycles), n)
		}
		for _, addrVal := range test.Final.RAM {
			mem.mustBe(addrVal[0], uint8(addrVal[1]))
		}
	}

	for _, file := range files {
		opcode, err := strconv.ParseUint(file.Name()[:2], 16, 8)
		if err != nil {
			t.Fatalf("failed to parse opcode from file name %s: %v", file.Name(), err)
		}

		fileData, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			t.Fatalf("failed to read file %s: %v", file.Name(), err)
		}

		var tests []testInstance
		if err := json.Unmarshal(fileData, &tests); err != nil {
			t.Fatalf("failed to unmarshal file %s: %v", file.Name(), err)
		}

		t.Run(file.Name(), func(t *testing.T) {
			if !Supported(uint8(opcode)) {
				t.Skipf("skipping test for opcode %02X because it is not supported", opcode)
				return
			}
			for _, test := range tests {
				doTest(t, test)
			}
		})
	}
}

// strictMem fails the test on writes the suite does not expect.
type strictMem struct {
	t       *testing.T
	data    []uint8
	allowed map[uint32]struct{}
}

func newStrictMem(t *testing.T) *strictMem {
	return &strictMem{
		t:       t,
		data:    make([]uint8, 0x10000),
		allowed: make(map[uint32]struct{}),
	}
}

func (m *strictMem) key(addr uint16, data uint8) uint32 {
	return uint32(addr) | uint32(data)<<16
}

func (m *strictMem) allow(addr uint16, data uint8) {
	m.allowed[m.key(addr, data)] = struct{}{}
}

func (m *strictMem) mustBe(addr uint16, data uint8) {
	if m.data[addr] != data {
		m.t.Fatalf("expected %02X at address %04X, got %02X", data, addr, m.data[addr])
	}
}

func (m *strictMem) set(addr uint16, data uint8) {
	m.data[addr] = data
}

func (m *strictMem) reset() {
	clear(m.data)
	maps.Clear(m.allowed)
}

func (m *strictMem) Read8(addr uint16) uint8 {
	return m.data[addr]
}

func (m *strictMem) Write8(addr uint16, data uint8) {
	if _, ok := m.allowed[m.key(addr, data)]; !ok {
		m.t.Fatalf("not allowed write to address %04X with value %02X", addr, data)
	}
	m.data[addr] = data
}
