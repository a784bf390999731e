// Package fbdev maps a Linux framebuffer device as an ndlm.Surface.
package fbdev

import "errors"

// ErrUnsupportedFormat is returned for framebuffers that are not 32 bits
// per pixel with 8-bit channels.
var ErrUnsupportedFormat = errors.New("fbdev: unsupported pixel format")

// Bitfield mirrors struct fb_bitfield.
type Bitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// VarScreeninfo mirrors struct fb_var_screeninfo from linux/fb.h.
type VarScreeninfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp Bitfield
	Nonstd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	Pixclock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HsyncLen, VsyncLen       uint32
	Sync, Vmode              uint32
	Rotate, Colorspace       uint32
	Reserved                 [4]uint32
}

// FixScreeninfo mirrors struct fb_fix_screeninfo from linux/fb.h.
type FixScreeninfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// Ioctl requests and flags from linux/fb.h and linux/kd.h.
const (
	fbioGetVScreeninfo = 0x4600
	fbioPutVScreeninfo = 0x4601
	fbioGetFScreeninfo = 0x4602

	activateNow   = 0
	activateForce = 128

	kdSetMode = 0x4B3A
)

// KDMode is a console mode for SetKDMode.
type KDMode int

const (
	// KDText is the normal text console.
	KDText KDMode = 0
	// KDGraphics stops the console from drawing over the framebuffer.
	KDGraphics KDMode = 1
)
