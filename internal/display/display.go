// Package display hosts the Game Boy core in an ebiten window: it scales
// the PPU's grayscale canvas onto the screen, maps keyboard input onto the
// joypad, and feeds the audio player a silent PCM stream so it has
// something to consume.
package display

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/fgssfgss/smallconsole/internal/joypad"
	"github.com/fgssfgss/smallconsole/internal/machine"
	"github.com/fgssfgss/smallconsole/internal/ppu"
)

// Config holds the window-level settings a host can override (spec.md §6).
type Config struct {
	Title   string
	Scale   int
	Palette ppu.CompatPalette
}

func DefaultConfig(title string) Config {
	return Config{Title: title, Scale: 3, Palette: ppu.CompatPaletteForTitle(title)}
}

// keymap pairs a host key with the joypad button it drives.
var keymap = []struct {
	key ebiten.Key
	btn joypad.Button
}{
	{ebiten.KeyArrowRight, joypad.Right},
	{ebiten.KeyArrowLeft, joypad.Left},
	{ebiten.KeyArrowUp, joypad.Up},
	{ebiten.KeyArrowDown, joypad.Down},
	{ebiten.KeyZ, joypad.A},
	{ebiten.KeyX, joypad.B},
	{ebiten.KeyShiftRight, joypad.Select},
	{ebiten.KeyEnter, joypad.Start},
}

// Game implements ebiten.Game, driving one emulated frame per host frame.
type Game struct {
	cfg Config
	m   *machine.Machine
	img *ebiten.Image

	audioCtx    *audio.Context
	audioPlayer *audio.Player
}

func NewGame(cfg Config, m *machine.Machine) *Game {
	g := &Game{cfg: cfg, m: m, img: ebiten.NewImage(ppu.Width, ppu.Height)}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(ppu.Width*cfg.Scale, ppu.Height*cfg.Scale)
	g.audioCtx = audio.NewContext(48000)
	player, err := g.audioCtx.NewPlayer(&silentPCMStream{m: m})
	if err == nil {
		g.audioPlayer = player
		g.audioPlayer.Play()
	}
	return g
}

func (g *Game) Update() error {
	for _, k := range keymap {
		g.m.SetButton(k.btn, ebiten.IsKeyPressed(k.key))
	}
	g.m.StepFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	shades := g.cfg.Palette.Shades()
	fb := g.m.Framebuffer()
	for i, v := range fb {
		idx := ppu.GrayscaleToIndex(v)
		rgb := shades[idx]
		x, y := i%ppu.Width, i/ppu.Width
		g.img.Set(x, y, color.RGBA{rgb[0], rgb[1], rgb[2], 0xFF})
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.cfg.Scale), float64(g.cfg.Scale))
	screen.DrawImage(g.img, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.Width * g.cfg.Scale, ppu.Height * g.cfg.Scale
}

// silentPCMStream feeds ebiten's audio player zero bytes (silence); it does
// not read from the APU. It satisfies io.Reader with 16-bit stereo little
// endian PCM, the format ebiten/v2/audio expects.
type silentPCMStream struct {
	m   *machine.Machine
	pos int64
}

func (s *silentPCMStream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	s.pos += int64(len(p))
	return len(p), nil
}
