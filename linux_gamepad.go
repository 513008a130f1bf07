//go:build linux

package gamepads

import (
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	gpName       = 0x80006a13 + (128 << 16)
	gpAxes       = 0x80016a11 /* get number of axes */
	gpButtons    = 0x80016a12
	gpVersion    = 0x80046a01
	gpAxesMap    = 0x80406a32
	gpButtonsMap = 0x80406a34
	// gpCorrectionValues = 0x80406a22
)

const (
	inputPath = "/dev/input"

	// watchInterval bounds how long WaitForDevice sleeps between
	// context checks.
	watchInterval = 250 * time.Millisecond
)

// Device is an open joystick node.
type Device struct {
	file *os.File
	fd   int
	info Gamepad
}

// eventSize is sizeof(struct js_event).
const eventSize = 8

// Open opens the joystick node at path and queries its capabilities.
func Open(path string) (*Device, error) {

	f, err := openFilePersistent(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	var (
		devName    string
		buttons    uint8
		buttonsMap [768]uint16
		axes       uint8
		axesMap    [64]uint8
		version    int32
	)

	err = ioctlStr(f, gpName, &devName)
	if err == nil {
		err = ioctl(f, gpButtons, unsafe.Pointer(&buttons))
	}
	if err == nil {
		err = ioctl(f, gpAxes, unsafe.Pointer(&axes))
	}
	if err == nil {
		err = ioctl(f, gpVersion, unsafe.Pointer(&version))
	}
	if err == nil {
		err = ioctl(f, gpButtonsMap, unsafe.Pointer(&buttonsMap))
	}
	if err == nil {
		err = ioctl(f, gpAxesMap, unsafe.Pointer(&axesMap))
	}
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, errNotJoystick, path)
	}

	return newDevice(f, Gamepad{
		ID:        filepath.Base(path),
		Path:      path,
		Model:     devName,
		Version:   version,
		Buttons:   int(buttons),
		ButtonMap: parseButtonsMap(buttonsMap, int(buttons)),
		Axes:      int(axes),
		AxesMap:   parseAxesMap(axesMap, int(axes)),
	}), nil
}

func newDevice(f *os.File, info Gamepad) *Device {
	return &Device{
		file: f,
		fd:   int(f.Fd()),
		info: info,
	}
}

// Info returns what the driver reported when the device was opened.
func (d *Device) Info() Gamepad {
	return d.info
}

// Next implements Source. A frame shorter than a js_event is reported as
// ErrShortFrame.
func (d *Device) Next(timeout time.Duration) (ControlEvent, bool, error) {

	if d.file == nil {
		return ControlEvent{}, false, ErrClosed
	}

	ready, err := waitReadable(d.fd, timeout)
	if err != nil {
		return ControlEvent{}, false, errors.Wrapf(err, "poll %s", d.info.Path)
	}
	if !ready {
		return ControlEvent{}, false, nil
	}

	// one read per frame, the driver never splits a js_event
	var buf [eventSize]byte
	n, err := d.file.Read(buf[:])
	if err != nil && err != io.EOF {
		return ControlEvent{}, false, errors.Wrapf(err, "read %s", d.info.Path)
	}
	if n != eventSize {
		return ControlEvent{}, false, errors.Wrapf(ErrShortFrame, "read %s: %d bytes", d.info.Path, n)
	}

	return decodeEvent(buf), true, nil
}

func decodeEvent(buf [eventSize]byte) ControlEvent {
	t := ControlType(buf[6])
	return ControlEvent{
		Timestamp: binary.LittleEndian.Uint32(buf[0:4]),
		Type:      t &^ InitialState,
		Index:     int(buf[7]),
		Value:     int16(binary.LittleEndian.Uint16(buf[4:6])),
		Initial:   t&InitialState != 0,
	}
}

func (d *Device) Close() error {
	if d.file == nil {
		return ErrClosed
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// Scan lists the joystick nodes in dir. Nodes that cannot be opened are
// skipped.
func Scan(dir string) (devices []Gamepad, err error) {

	if dir == "" {
		dir = inputPath
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", dir)
	}

	for _, entry := range entries {
		t, name, ok := extractFromBytes([]byte(entry.Name()))
		if !ok || t != gamepadEventType {
			continue
		}
		d, err := Open(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		devices = append(devices, d.Info())
		_ = d.Close()
	}
	return devices, nil
}

// WaitForDevice returns once path exists. It watches the parent directory
// with inotify, so a controller plugged in after start-up is picked up
// without polling the filesystem.
func WaitForDevice(ctx context.Context, path string) (err error) {

	if _, err = os.Stat(path); err == nil {
		return nil
	}

	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}

	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return errors.Wrap(err, "inotify init failed")
	}
	defer func() { _ = unix.Close(fd) }()

	if _, err = unix.InotifyAddWatch(fd, dir, unix.IN_CREATE|unix.IN_MOVED_TO); err != nil {
		return errors.Wrapf(err, "inotify add watch on %s failed", dir)
	}

	// the node may have appeared before the watch was in place
	if _, err = os.Stat(path); err == nil {
		return nil
	}

	buf := make([]byte, 4096)

	for {

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ready, err := waitReadable(fd, watchInterval)
		if err != nil {
			return errors.Wrap(err, "inotify poll failed")
		}
		if !ready {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err == unix.EAGAIN || err == unix.EINTR {
			continue
		}
		if err != nil {
			return errors.Wrap(err, "inotify read failed")
		}

		var offset uint32
		for offset+unix.SizeofInotifyEvent <= uint32(n) {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			nameBytes := buf[offset+unix.SizeofInotifyEvent : offset+unix.SizeofInotifyEvent+event.Len]
			if escapeString(nameBytes) == name {
				return nil
			}
			offset += unix.SizeofInotifyEvent + event.Len
		}
	}
}

func ioctl(f *os.File, infoType int, dest unsafe.Pointer) (err error) {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		f.Fd(),
		uintptr(infoType),
		uintptr(dest),
	)
	if errno != 0 {
		return errors.Errorf("ioctl error: %d", errno)
	}
	return
}

func ioctlStr(f *os.File, infoType int, dest *string) (err error) {
	info := make([]byte, 128)
	if err = ioctl(f, infoType, unsafe.Pointer(&info[0])); err != nil {
		return
	}
	*dest = escapeString(info)
	return
}
