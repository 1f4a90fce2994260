package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"
)

// ErrPrinterNotFound is returned when no device matches the vendor/product pair.
var ErrPrinterNotFound = errors.New("usb printer not found")

// UsbPrinter is a write-only handle to the bulk OUT endpoint of a USB printer.
type UsbPrinter struct {
	VendorID  gousb.ID
	ProductID gousb.ID
	Timeout   time.Duration

	usb  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint
}

// OpenUsbPrinter claims interface intf of configuration config and opens endpoint outEP.
func OpenUsbPrinter(vendorID, productID uint16, config, intf, outEP int, timeout time.Duration) (*UsbPrinter, error) {
	p := &UsbPrinter{
		VendorID:  gousb.ID(vendorID),
		ProductID: gousb.ID(productID),
		Timeout:   timeout,
		usb:       gousb.NewContext(),
	}

	dev, err := p.usb.OpenDeviceWithVIDPID(p.VendorID, p.ProductID)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("open usb %s:%s: %w", p.VendorID, p.ProductID, err)
	}
	if dev == nil {
		_ = p.Close()
		return nil, fmt.Errorf("%w (vendor %s, product %s)", ErrPrinterNotFound, p.VendorID, p.ProductID)
	}
	p.dev = dev

	if err := dev.SetAutoDetach(true); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("detach kernel driver: %w", err)
	}
	if p.cfg, err = dev.Config(config); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("select usb config %d: %w", config, err)
	}
	if p.intf, err = p.cfg.Interface(intf, 0); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("claim usb interface %d: %w", intf, err)
	}
	if p.out, err = p.intf.OutEndpoint(outEP); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("open out endpoint %d: %w", outEP, err)
	}
	return p, nil
}

// Write sends b to the printer. A zero Timeout waits until the transfer completes.
func (p *UsbPrinter) Write(b []byte) (int, error) {
	if p.out == nil {
		return 0, errors.New("usb printer not open")
	}
	ctx := context.Background()
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	return p.out.WriteContext(ctx, b)
}

// Close releases the interface, configuration, device and libusb context in that order.
func (p *UsbPrinter) Close() error {
	var errs []error
	if p.intf != nil {
		p.intf.Close()
		p.intf = nil
	}
	if p.cfg != nil {
		errs = append(errs, p.cfg.Close())
		p.cfg = nil
	}
	if p.dev != nil {
		errs = append(errs, p.dev.Close())
		p.dev = nil
	}
	if p.usb != nil {
		errs = append(errs, p.usb.Close())
		p.usb = nil
	}
	p.out = nil
	return errors.Join(errs...)
}
