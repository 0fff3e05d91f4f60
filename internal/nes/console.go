// Package nes wires the CPU, the PPU and a cartridge into a console and
// drives them in lock step.
package nes

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/glog"
	"github.com/nevisdale/nescore/internal/bus"
	"github.com/nevisdale/nescore/internal/cart"
	"github.com/nevisdale/nescore/internal/cpu"
	"github.com/nevisdale/nescore/internal/input"
	"github.com/nevisdale/nescore/internal/ppu"
)

// dotsPerCycle is the number of PPU dots run for every CPU cycle.
const dotsPerCycle = 3

var ErrInvalidPlayer = errors.New("invalid player")

// FrameHandler is called every time the PPU completes a frame. fb is only
// valid until the next frame completes.
type FrameHandler func(frame uint64, fb *ppu.Framebuffer)

type Option func(*options)

type options struct {
	tracer   cpu.Tracer
	onFrame  FrameHandler
	verifyPC bool
}

// WithTracer reports every executed CPU instruction to t.
func WithTracer(t cpu.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

func WithFrameHandler(h FrameHandler) Option {
	return func(o *options) {
		o.onFrame = h
	}
}

// WithVerifyPC enables the CPU program counter check after every
// straight-line instruction.
func WithVerifyPC(on bool) Option {
	return func(o *options) {
		o.verifyPC = on
	}
}

// Stats counts the work done since power on.
type Stats struct {
	CPUSteps  uint64
	CPUCycles uint64
	PPUDots   uint64
	Frames    uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("steps=%d cycles=%d dots=%d frames=%d", s.CPUSteps, s.CPUCycles, s.PPUDots, s.Frames)
}

type Console struct {
	cart   *cart.Cartridge
	mapper cart.Mapper

	cpu    *cpu.CPU
	ppu    *ppu.PPU
	cpuBus *bus.Bus
	ram    *bus.RAM
	pads   [2]*input.Controller

	onFrame   FrameHandler
	dots      uint64
	lastFrame uint64
}

// New builds a console around c and powers it on.
func New(c *cart.Cartridge, opts ...Option) (*Console, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	mapper, err := cart.NewMapper(c)
	if err != nil {
		return nil, err
	}
	p, err := ppu.New(c, mapper)
	if err != nil {
		return nil, err
	}

	con := &Console{
		cart:    c,
		mapper:  mapper,
		ppu:     p,
		pads:    [2]*input.Controller{input.NewController(), input.NewController()},
		onFrame: o.onFrame,
	}
	if con.cpuBus, err = con.newCPUMemory(); err != nil {
		return nil, fmt.Errorf("cpu memory map: %w", err)
	}

	var cpuOpts []cpu.Option
	if o.tracer != nil {
		cpuOpts = append(cpuOpts, cpu.WithTracer(o.tracer))
	}
	cpuOpts = append(cpuOpts, cpu.WithVerifyPC(o.verifyPC))
	con.cpu = cpu.NewCPU(con.cpuBus, cpuOpts...)

	if err := con.PowerOn(); err != nil {
		return nil, err
	}
	glog.Infof("console: %s, mapper %s", c, mapper.Name())
	return con, nil
}

// PowerOn clears RAM and puts the CPU and the PPU in their power-up state.
func (c *Console) PowerOn() error {
	c.ram.Clear()
	c.ppu.PowerOn()
	c.dots = 0
	c.lastFrame = 0
	if err := c.cpu.PowerOn(); err != nil {
		return fmt.Errorf("power on: %w", err)
	}
	return nil
}

// Reset presses the reset button. RAM and VRAM are kept.
func (c *Console) Reset() error {
	c.ppu.Reset()
	if err := c.cpu.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	glog.V(1).Info("console: reset")
	return nil
}

// Step runs one CPU step and the PPU dots for the cycles it took, then
// forwards a pending NMI to the CPU. It returns the CPU cycles consumed.
func (c *Console) Step() (n int, err error) {
	defer bus.Recover(&err)

	n, err = c.cpu.Step()
	if err != nil {
		return n, err
	}
	for i := 0; i < n*dotsPerCycle; i++ {
		c.ppu.Step()
		c.dots++
		if frame := c.ppu.FrameNumber(); frame != c.lastFrame {
			c.lastFrame = frame
			if c.onFrame != nil {
				c.onFrame(frame, c.ppu.Frame())
			}
		}
	}
	if c.ppu.PollNMI() {
		c.cpu.TriggerNMI()
	}
	return n, nil
}

// StepFrame steps until the PPU completes the current frame.
func (c *Console) StepFrame() error {
	frame := c.ppu.FrameNumber()
	for c.ppu.FrameNumber() == frame {
		if _, err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Run steps frames until ctx is done or, when frames is positive, that many
// frames have completed.
func (c *Console) Run(ctx context.Context, frames int) error {
	for i := 0; frames <= 0 || i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.StepFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Frame returns the last completed frame.
func (c *Console) Frame() *ppu.Framebuffer {
	return c.ppu.Frame()
}

func (c *Console) FrameNumber() uint64 {
	return c.ppu.FrameNumber()
}

// SetButtons updates the state of controller 0 or 1.
func (c *Console) SetButtons(player int, b input.Buttons) error {
	if player < 0 || player >= len(c.pads) {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	c.pads[player].Set(b)
	return nil
}

func (c *Console) Stats() Stats {
	return Stats{
		CPUSteps:  c.cpu.Steps(),
		CPUCycles: c.cpu.Cycles(),
		PPUDots:   c.dots,
		Frames:    c.ppu.FrameNumber(),
	}
}

func (c *Console) CPUBus() *bus.Bus {
	return c.cpuBus
}

func (c *Console) PPUBus() *bus.Bus {
	return c.ppu.Bus()
}
