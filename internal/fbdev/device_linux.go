//go:build linux

package fbdev

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ndlm/ndlm"
)

// Device is an open, memory-mapped framebuffer.
type Device struct {
	f       *os.File
	mem     []byte
	vinfo   VarScreeninfo
	finfo   FixScreeninfo
	surface *ndlm.Surface
}

// Open opens and maps the framebuffer at path, e.g. /dev/fb0.
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("fbdev: %w", err)
	}
	d := &Device{f: f}
	if err := d.init(); err != nil {
		_ = f.Close()
		return nil, err
	}
	ndlm.Logger().Info("framebuffer opened", "path", path,
		"width", d.vinfo.XRes, "height", d.vinfo.YRes, "stride", d.finfo.LineLength,
		"order", d.surface.Order())
	return d, nil
}

func (d *Device) init() error {
	fd := d.f.Fd()
	if err := ioctl(fd, fbioGetVScreeninfo, unsafe.Pointer(&d.vinfo)); err != nil {
		return fmt.Errorf("fbdev: FBIOGET_VSCREENINFO: %w", err)
	}
	if err := ioctl(fd, fbioGetFScreeninfo, unsafe.Pointer(&d.finfo)); err != nil {
		return fmt.Errorf("fbdev: FBIOGET_FSCREENINFO: %w", err)
	}
	order, err := channelOrder(&d.vinfo)
	if err != nil {
		return err
	}

	size := int(d.finfo.LineLength) * int(max(d.vinfo.YResVirtual, d.vinfo.YRes))
	if d.finfo.SmemLen != 0 && int(d.finfo.SmemLen) < size {
		size = int(d.finfo.SmemLen)
	}
	mem, err := unix.Mmap(int(fd), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("fbdev: mmap: %w", err)
	}
	d.mem = mem

	surf, err := ndlm.NewSurface(mem, int(d.vinfo.XRes), int(d.vinfo.YRes),
		ndlm.WithStride(int(d.finfo.LineLength)), ndlm.WithChannelOrder(order))
	if err != nil {
		_ = unix.Munmap(mem)
		d.mem = nil
		return fmt.Errorf("fbdev: %w", err)
	}
	d.surface = surf
	return nil
}

// channelOrder derives the byte order from the channel bitfields.
func channelOrder(v *VarScreeninfo) (ndlm.ChannelOrder, error) {
	if v.BitsPerPixel != 32 || v.Red.Length != 8 || v.Green.Length != 8 || v.Blue.Length != 8 {
		return 0, fmt.Errorf("%w: %d bpp, r%d g%d b%d",
			ErrUnsupportedFormat, v.BitsPerPixel, v.Red.Length, v.Green.Length, v.Blue.Length)
	}
	switch {
	case v.Red.Offset == 16 && v.Green.Offset == 8 && v.Blue.Offset == 0:
		return ndlm.OrderBGRA, nil
	case v.Red.Offset == 0 && v.Green.Offset == 8 && v.Blue.Offset == 16:
		return ndlm.OrderRGBA, nil
	}
	return 0, fmt.Errorf("%w: red at bit %d, blue at bit %d", ErrUnsupportedFormat, v.Red.Offset, v.Blue.Offset)
}

// Surface returns the mapped pixels.
func (d *Device) Surface() *ndlm.Surface { return d.surface }

// Present asks the driver to show the current contents, for drivers that
// do not scan out the mapped memory continuously.
func (d *Device) Present() error {
	info := d.vinfo
	info.Activate |= activateNow | activateForce
	if err := ioctl(d.f.Fd(), fbioPutVScreeninfo, unsafe.Pointer(&info)); err != nil {
		return fmt.Errorf("fbdev: FBIOPUT_VSCREENINFO: %w", err)
	}
	return nil
}

// Close unmaps the memory and closes the device.
func (d *Device) Close() error {
	var err error
	if d.mem != nil {
		err = unix.Munmap(d.mem)
		d.mem = nil
	}
	if cerr := d.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// SetKDMode switches the console behind tty between text and graphics mode.
func SetKDMode(tty *os.File, mode KDMode) error {
	if err := unix.IoctlSetInt(int(tty.Fd()), kdSetMode, int(mode)); err != nil {
		return fmt.Errorf("fbdev: KDSETMODE %d: %w", mode, err)
	}
	return nil
}

func ioctl(fd uintptr, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
