//go:build linux

package backends

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/macrokeys/macrod/input"
	"github.com/macrokeys/macrod/utils"
)

// uinput ioctls, from linux/uinput.h
const (
	uiSetEvBit   = 0x40045564 // UI_SET_EVBIT
	uiSetKeyBit  = 0x40045565 // UI_SET_KEYBIT
	uiDevCreate  = 0x5501     // UI_DEV_CREATE
	uiDevDestroy = 0x5502     // UI_DEV_DESTROY
)

// evdev event types/values, from linux/input-event-codes.h
const (
	evSyn = 0x00
	evKey = 0x01

	synReport = 0

	keyReleased = 0
	keyPressed  = 1
)

const uinputPath = "/dev/uinput"

// userSpace is the uinput-based variant: a virtual keyboard device created
// through /dev/uinput. Unprivileged wherever the uinput node is writable.
type userSpace struct {
	mu   sync.Mutex
	file *os.File
}

func newUserSpace() (Backend, error) {
	file, err := os.OpenFile(uinputPath, os.O_WRONLY|unix.O_NONBLOCK, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %s: %v", ErrUnavailable, uinputPath, err)
	}

	fd := int(file.Fd())
	if err := unix.IoctlSetInt(fd, uiSetEvBit, evKey); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: UI_SET_EVBIT failed: %v", ErrUnavailable, err)
	}
	for _, code := range evdevCodes {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(code)); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("%w: UI_SET_KEYBIT %d failed: %v", ErrUnavailable, code, err)
		}
	}

	if err := writeDeviceSetup(file); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: device setup failed: %v", ErrUnavailable, err)
	}

	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: UI_DEV_CREATE failed: %v", ErrUnavailable, err)
	}

	utils.Verbose("backends: created uinput virtual keyboard")
	return &userSpace{file: file}, nil
}

// writeDeviceSetup writes the legacy uinput_user_dev record: an 80-byte
// name, input_id (bustype/vendor/product/version), ff_effects_max and the
// four absmax/absmin/absfuzz/absflat arrays of 64 int32 each.
func writeDeviceSetup(f *os.File) error {
	buf := make([]byte, 80+8+4+4*64*4)
	copy(buf, []byte("macrod virtual keyboard"))
	binary.LittleEndian.PutUint16(buf[80:], 0x03)   // BUS_USB
	binary.LittleEndian.PutUint16(buf[82:], 0x1d6b) // vendor
	binary.LittleEndian.PutUint16(buf[84:], 0x0104) // product
	binary.LittleEndian.PutUint16(buf[86:], 1)      // version

	_, err := f.Write(buf)
	return err
}

func (u *userSpace) Kind() Kind {
	return KindUserSpace
}

func (u *userSpace) Press(key input.Key) error {
	return u.emitKey(key, keyPressed)
}

func (u *userSpace) Release(key input.Key) error {
	return u.emitKey(key, keyReleased)
}

func (u *userSpace) emitKey(key input.Key, value int32) error {
	code, err := evdevCode(key)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.file == nil {
		return fmt.Errorf("user-space backend already destroyed")
	}

	if err := writeInputEvent(u.file, evKey, code, value); err != nil {
		return fmt.Errorf("failed to inject %q: %w", key, err)
	}
	return writeInputEvent(u.file, evSyn, synReport, 0)
}

// writeInputEvent writes one struct input_event (timeval left zero, the
// kernel stamps it).
func writeInputEvent(f *os.File, typ, code uint16, value int32) error {
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint16(buf[16:], typ)
	binary.LittleEndian.PutUint16(buf[18:], code)
	binary.LittleEndian.PutUint32(buf[20:], uint32(value))
	_, err := f.Write(buf)
	return err
}

func (u *userSpace) Destroy() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.file == nil {
		return nil
	}

	if err := unix.IoctlSetInt(int(u.file.Fd()), uiDevDestroy, 0); err != nil {
		utils.Verbose("backends: UI_DEV_DESTROY failed: %v", err)
	}
	err := u.file.Close()
	u.file = nil
	return err
}
