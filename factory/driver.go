/*
driver.go - Pooled passive driver resource

Drivers never perform steps themselves. Transporter trips claim the
first free driver from the plant's pool; the claimed driver is blocked
for the trip duration. Acquisition trips block the driver, customer
deliveries claim one without blocking it (the warehouse side keeps the
transporter busy, the driver is back sooner).
*/
package factory

// Driver is a passive pooled resource claimed by transporter trips.
type Driver struct {
	name         string
	blockedUntil Tick
}

// NewDriver creates an idle driver.
func NewDriver(name string) *Driver {
	return &Driver{name: name}
}

func (d *Driver) Name() string       { return d.name }
func (d *Driver) BlockedUntil() Tick { return d.blockedUntil }

// Free reports whether the driver can take a trip at the given time.
func (d *Driver) Free(now Tick) bool { return d.blockedUntil <= now }

// Block occupies the driver until the given tick.
func (d *Driver) Block(until Tick) { d.blockedUntil = until }

// Reset restores the idle state.
func (d *Driver) Reset() { d.blockedUntil = 0 }
