package backends

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/macrokeys/macrod/input"
	"github.com/macrokeys/macrod/utils"
)

const (
	injectorBusName    = "com.macrokeys.Injector1"
	injectorObjectPath = "/com/macrokeys/Injector1"
	injectorInterface  = "com.macrokeys.Injector1"
)

// kernelLevel drives the privileged injection helper service over the D-Bus
// system bus. The helper owns a driver-backed virtual device that emulates
// hardware-level input; detection risk is lower than uinput but the service
// must be installed and running.
type kernelLevel struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

func newKernelLevel() (Backend, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot connect to system bus: %v", ErrUnavailable, err)
	}

	var hasOwner bool
	busObj := conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus")
	if err := busObj.Call("org.freedesktop.DBus.NameHasOwner", 0, injectorBusName).Store(&hasOwner); err != nil {
		return nil, fmt.Errorf("%w: bus query failed: %v", ErrUnavailable, err)
	}
	if !hasOwner {
		return nil, fmt.Errorf("%w: injector service %s is not running", ErrUnavailable, injectorBusName)
	}

	b := &kernelLevel{
		conn: conn,
		obj:  conn.Object(injectorBusName, injectorObjectPath),
	}

	// Open acquires the helper's virtual device; an incompatible helper
	// fails here rather than mid-sequence
	if call := b.obj.Call(injectorInterface+".Open", 0); call.Err != nil {
		return nil, fmt.Errorf("%w: injector rejected session: %v", ErrUnavailable, call.Err)
	}

	utils.Verbose("backends: attached to kernel-level injector %s", injectorBusName)
	return b, nil
}

func (b *kernelLevel) Kind() Kind {
	return KindKernel
}

func (b *kernelLevel) Press(key input.Key) error {
	return b.emitKey("Press", key)
}

func (b *kernelLevel) Release(key input.Key) error {
	return b.emitKey("Release", key)
}

func (b *kernelLevel) emitKey(method string, key input.Key) error {
	code, err := evdevCode(key)
	if err != nil {
		return err
	}
	if call := b.obj.Call(injectorInterface+"."+method, 0, uint16(code)); call.Err != nil {
		return fmt.Errorf("injector %s %q failed: %w", method, key, call.Err)
	}
	return nil
}

func (b *kernelLevel) Destroy() error {
	if call := b.obj.Call(injectorInterface+".Close", 0); call.Err != nil {
		utils.Verbose("backends: injector close failed: %v", call.Err)
	}
	return b.conn.Close()
}
