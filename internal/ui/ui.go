package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/nevisdale/nescore/internal/input"
	"github.com/nevisdale/nescore/internal/nes"
	"github.com/nevisdale/nescore/internal/ppu"
)

// Arrows, Z (A), X (B), Right Shift (Select), Enter (Start) - controller 1
// Tab - show debug info
// P - pause
// N - one instruction while paused
// C - cycle the pattern table palette

var keymap = map[ebiten.Key]input.Buttons{
	ebiten.KeyZ:          input.ButtonA,
	ebiten.KeyX:          input.ButtonB,
	ebiten.KeyShiftRight: input.ButtonSelect,
	ebiten.KeyEnter:      input.ButtonStart,
	ebiten.KeyArrowUp:    input.ButtonUp,
	ebiten.KeyArrowDown:  input.ButtonDown,
	ebiten.KeyArrowLeft:  input.ButtonLeft,
	ebiten.KeyArrowRight: input.ButtonRight,
}

const (
	gameScreenWidth  = ppu.Width
	gameScreenHeight = ppu.Height

	debugScreenWidth = 286
	patternTableGap  = 5
	disasmLines      = 7
)

type UI struct {
	con   *nes.Console
	scale int

	screen   *image.RGBA
	frame    *ebiten.Image
	patterns [2]*image.RGBA
	disasm   map[uint16]string

	palette   uint8
	paused    bool
	showDebug bool
}

func New(con *nes.Console, scale int) *UI {
	if scale < 1 {
		scale = 1
	}
	ui := &UI{
		con:    con,
		scale:  scale,
		screen: image.NewRGBA(image.Rect(0, 0, gameScreenWidth, gameScreenHeight)),
		frame:  ebiten.NewImage(gameScreenWidth, gameScreenHeight),
	}
	for i := range ui.patterns {
		ui.patterns[i] = image.NewRGBA(image.Rect(0, 0, ppu.PatternTableSize, ppu.PatternTableSize))
	}
	ui.refreshDisasm()
	return ui
}

func (ui *UI) refreshDisasm() {
	disasm, err := ui.con.Disassemble(0x8000, 0xffff)
	if err != nil {
		glog.Warningf("ui: disassemble: %s", err)
		return
	}
	ui.disasm = disasm
}

func (ui *UI) pollController() error {
	var buttons input.Buttons
	for key, b := range keymap {
		if ebiten.IsKeyPressed(key) {
			buttons |= b
		}
	}
	return ui.con.SetButtons(0, buttons)
}

func (ui *UI) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		ui.showDebug = !ui.showDebug
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		ui.palette++
		if ui.palette > 7 {
			ui.palette = 0
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		ui.paused = !ui.paused
		if ui.paused {
			ui.refreshDisasm()
		}
	}

	if err := ui.pollController(); err != nil {
		return err
	}

	if ui.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			if _, err := ui.con.Step(); err != nil {
				return err
			}
		}
		return nil
	}
	return ui.con.StepFrame()
}

func (ui *UI) Draw(screen *ebiten.Image) {
	paint(ui.screen, ui.con.Frame()[:])
	ui.frame.WritePixels(ui.screen.Pix)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(ui.scale), float64(ui.scale))
	screen.DrawImage(ui.frame, op)

	if ui.showDebug {
		ui.drawDebug(screen)
	}
}

func (ui *UI) drawDebug(screen *ebiten.Image) {
	info := ui.con.DebugInfo()
	var infoStr strings.Builder
	fmt.Fprintf(&infoStr, " FPS: %0.0f\n", ebiten.ActualFPS())
	fmt.Fprintf(&infoStr, " PALETTE: %d\n", ui.palette)
	fmt.Fprintf(&infoStr, " STATUS: %s\n", info.StatusString())
	fmt.Fprintf(&infoStr, " PC: %04X CYC: %d\n", info.PC, info.Cycles)
	fmt.Fprintf(&infoStr, " A: $%02X [%03d]", info.A, info.A)
	fmt.Fprintf(&infoStr, " X: $%02X [%03d]", info.X, info.X)
	fmt.Fprintf(&infoStr, " Y: $%02X [%03d]\n", info.Y, info.Y)
	fmt.Fprintf(&infoStr, " SP: $%02X\n", info.SP)
	fmt.Fprintf(&infoStr, " LINE: %d DOT: %d FRAME: %d\n", info.PPU.Scanline, info.PPU.Dot, info.PPU.Frame)
	fmt.Fprintf(&infoStr, " V: $%04X T: $%04X X: %d\n", info.PPU.V, info.PPU.T, info.PPU.X)

	if ui.paused {
		ui.writeDisasm(&infoStr, info.PC)
	}

	offsetX := float32(gameScreenWidth * ui.scale)
	height := float32(gameScreenHeight * ui.scale)
	vector.DrawFilledRect(screen, offsetX, 0, debugScreenWidth, height, color.RGBA{50, 50, 50, 255}, false)
	ebitenutil.DebugPrintAt(screen, infoStr.String(), int(offsetX), 0)

	for i := 0; i < 8; i++ {
		paletteImg := ebiten.NewImage(4, 1)
		for j := 0; j < 4; j++ {
			paletteImg.Set(j, 0, Palette[ui.con.PaletteEntry(uint8(i*4+j))&0x3f])
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(4, 4)
		op.GeoM.Translate(float64(offsetX)+10+float64(i*35), float64(height)-ppu.PatternTableSize-20)
		screen.DrawImage(paletteImg, op)
	}

	for i, img := range ui.patterns {
		values, err := ui.con.PatternTable(i, ui.palette)
		if err != nil {
			glog.Warningf("ui: pattern table %d: %s", i, err)
			continue
		}
		paint(img, values[:])
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(offsetX)+10+float64(i*(ppu.PatternTableSize+patternTableGap)), float64(height)-ppu.PatternTableSize-10)
		screen.DrawImage(ebiten.NewImageFromImage(img), op)
	}
}

// writeDisasm prints the instructions around pc, marking pc with '*'.
func (ui *UI) writeDisasm(w *strings.Builder, pc uint16) {
	var before []string
	for addr := int(pc) - 1; addr >= 0 && len(before) < disasmLines && pc-uint16(addr) < 3*disasmLines; addr-- {
		if text, ok := ui.disasm[uint16(addr)]; ok {
			before = append([]string{text}, before...)
		}
	}
	for _, text := range before {
		w.WriteString(" " + text + "\n")
	}

	text, ok := ui.disasm[pc]
	if !ok {
		text = fmt.Sprintf("$%04X: ???", pc)
	}
	w.WriteString("*" + text + "\n")

	count := 0
	for addr := int(pc) + 1; addr <= 0xffff && count < disasmLines; addr++ {
		if text, ok := ui.disasm[uint16(addr)]; ok {
			w.WriteString(" " + text + "\n")
			count++
		}
	}
}

func (ui *UI) Layout(_, _ int) (int, int) {
	w, h := ui.size()
	return w, h
}

func (ui *UI) size() (int, int) {
	w := gameScreenWidth * ui.scale
	if ui.showDebug {
		w += debugScreenWidth
	}
	return w, gameScreenHeight * ui.scale
}

func RunUI(ui *UI, title string) error {
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(gameScreenWidth*ui.scale+debugScreenWidth, gameScreenHeight*ui.scale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(ui)
}
