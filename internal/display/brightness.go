package display

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Brightness controls a display's backlight. Exactly one dim or restore
// operation is in flight at a time; the watchdog owns the handle.
type Brightness interface {
	// Current returns the brightness in [0, 1].
	Current() (float64, error)
	// Set changes the brightness to a value in [0, 1].
	Set(value float64) error
}

// NoopBrightness is used where no hardware control is available, matching
// the desktop shell whose brightness plugin is a no-op.
type NoopBrightness struct{}

func (NoopBrightness) Current() (float64, error) { return 1.0, nil }
func (NoopBrightness) Set(float64) error         { return nil }

const (
	powerBusName     = "org.gnome.SettingsDaemon.Power"
	powerObjectPath  = "/org/gnome/SettingsDaemon/Power"
	powerScreenIface = "org.gnome.SettingsDaemon.Power.Screen"
)

// brightnessBus is the subset of D-Bus operations the kiosk brightness
// control needs, split out so tests can fake the bus.
type brightnessBus interface {
	GetProperty(prop string) (dbus.Variant, error)
	SetProperty(prop string, value any) error
	Close() error
}

type sessionBus struct {
	conn *dbus.Conn
}

func (b *sessionBus) GetProperty(prop string) (dbus.Variant, error) {
	return b.conn.Object(powerBusName, powerObjectPath).GetProperty(prop)
}

func (b *sessionBus) SetProperty(prop string, value any) error {
	return b.conn.Object(powerBusName, powerObjectPath).SetProperty(prop, dbus.MakeVariant(value))
}

func (b *sessionBus) Close() error { return b.conn.Close() }

// DBusBrightness drives the kiosk backlight through the session power
// daemon, which exposes brightness as an integer percentage.
type DBusBrightness struct {
	bus brightnessBus
}

// NewDBusBrightness connects to the session bus.
func NewDBusBrightness() (*DBusBrightness, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &DBusBrightness{bus: &sessionBus{conn: conn}}, nil
}

// Current returns the backlight level in [0, 1].
func (d *DBusBrightness) Current() (float64, error) {
	variant, err := d.bus.GetProperty(powerScreenIface + ".Brightness")
	if err != nil {
		return 0, fmt.Errorf("failed to read brightness: %w", err)
	}
	percent, ok := variant.Value().(int32)
	if !ok {
		return 0, fmt.Errorf("unexpected brightness type %T", variant.Value())
	}
	return float64(percent) / 100, nil
}

// Set changes the backlight level.
func (d *DBusBrightness) Set(value float64) error {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	percent := int32(value * 100)
	if err := d.bus.SetProperty(powerScreenIface+".Brightness", percent); err != nil {
		return fmt.Errorf("failed to set brightness: %w", err)
	}
	return nil
}

// Close releases the bus connection.
func (d *DBusBrightness) Close() error {
	return d.bus.Close()
}
