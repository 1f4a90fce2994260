package core

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"VitalsKiosk/internal/device"
	"VitalsKiosk/internal/model"
	"VitalsKiosk/internal/receipt"
)

// PrintReceipt encodes the configured receipt and writes it to w in one transfer.
func PrintReceipt(cfg model.Config, w io.Writer) error {
	job, err := receipt.Build(cfg.Receipt, cfg.Printer.PaperWidth)
	if err != nil {
		return fmt.Errorf("[receipt] build job: %w", err)
	}
	n, err := w.Write(job)
	if err != nil {
		return fmt.Errorf("[receipt] send job: %w", err)
	}
	if n != len(job) {
		return fmt.Errorf("[receipt] short write: %d of %d bytes", n, len(job))
	}
	slog.Default().With("component", "receipt").Debug("job written", "bytes", n)
	return nil
}

// RunReceiptJob prints one receipt on the USB printer, or into the file out when set.
func RunReceiptJob(cfg model.Config, out string) error {
	var sink io.WriteCloser
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("[receipt] create %s: %w", out, err)
		}
		sink = f
	} else {
		p := cfg.Printer
		printer, err := device.OpenUsbPrinter(p.VendorID, p.ProductID, p.Config, p.Interface, p.OutEndpoint, p.Timeout)
		if err != nil {
			return err
		}
		sink = printer
	}

	err := PrintReceipt(cfg, sink)
	if cerr := sink.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("[receipt] close: %w", cerr)
	}
	return err
}

// ReceiptHints lists what to check after a failed print job.
func ReceiptHints(p model.PrinterConfig, user string) []string {
	return []string{
		"Please ensure:",
		"  1. The printer is connected via USB and powered on.",
		fmt.Sprintf("  2. Your user (%s) has permissions to access USB devices.", user),
		"     * Make sure you've logged out and back in after adding your user to 'lp' and 'dialout' groups.",
		"     * Ensure a UDEV rule is set up for your printer.",
		"     * After creating the UDEV rule, unplug and replug the printer.",
		fmt.Sprintf("  3. The Vendor ID (0x%x) and Product ID (0x%x) are correct.", p.VendorID, p.ProductID),
		fmt.Sprintf("  4. The USB interface (%d) and out endpoint (%d) are correct for your setup. Check `lsusb -v`.", p.Interface, p.OutEndpoint),
		"  5. If you're still getting style errors, print plain text without styling to confirm basic connectivity.",
	}
}
