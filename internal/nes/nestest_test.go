package nes

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/nevisdale/nescore/internal/cart"
	"github.com/nevisdale/nescore/internal/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_Nestest(t *testing.T) {
	nestestBinFile := os.Getenv("NESTEST_BIN")
	nestestLogFile := os.Getenv("NESTEST_LOG")
	if nestestBinFile == "" || nestestLogFile == "" {
		t.Skip("skipping test because NESTEST_BIN or NESTEST_LOG is not set")
		return
	}

	c, err := cart.LoadFile(nestestBinFile)
	require.NoError(t, err, "failed to load nestest rom")

	con, err := New(c, WithVerifyPC(true))
	require.NoError(t, err)

	// nestest (all tests) starts at 0xC000
	regs := con.cpu.Registers()
	regs.PC = 0xC000
	con.cpu.SetRegisters(regs)

	re := regexp.MustCompile(`([A-F0-9]{4}).+A:([A-F0-9]{2}) X:([A-F0-9]{2}) Y:([A-F0-9]{2}) P:([A-F0-9]{2}) SP:([A-F0-9]{2}).+CYC:(\d+)`)
	type state struct {
		// before executing the instruction
		regs cpu.Registers
		cyc  uint64
	}

	hex := func(s string, bits int) uint64 {
		v, err := strconv.ParseUint(s, 16, bits)
		require.NoError(t, err)
		return v
	}

	parseLogLine := func(s string) state {
		match := re.FindStringSubmatch(s)
		require.NotNil(t, match, "unexpected log line %q", s)

		// from 1 to skip full match
		cyc, err := strconv.ParseUint(match[7], 10, 64)
		require.NoError(t, err)
		return state{
			regs: cpu.Registers{
				PC: uint16(hex(match[1], 16)),
				A:  uint8(hex(match[2], 8)),
				X:  uint8(hex(match[3], 8)),
				Y:  uint8(hex(match[4], 8)),
				P:  uint8(hex(match[5], 8)),
				SP: uint8(hex(match[6], 8)),
			},
			cyc: cyc,
		}
	}

	logFileData, err := os.ReadFile(nestestLogFile)
	require.NoError(t, err, "failed to open nestest log file")

	var expectedStates []state
	for _, line := range strings.Split(string(logFileData), "\n") {
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		expectedStates = append(expectedStates, parseLogLine(line))
	}

	for i, expectedState := range expectedStates {
		actualState := state{
			regs: con.cpu.Registers(),
			cyc:  con.cpu.Cycles(),
		}
		if !assert.Equal(t, expectedState, actualState, "failed at instruction %s:%d", nestestLogFile, i+1) {
			return
		}
		if _, err := con.Step(); err != nil {
			t.Fatalf("step %d: %s", i+1, err)
		}
	}

	// official and unofficial opcode results
	assert.Equal(t, uint8(0), con.CPUBus().ReadByte(0x0002))
	assert.Equal(t, uint8(0), con.CPUBus().ReadByte(0x0003))
}
