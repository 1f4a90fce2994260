// Package model defines shared configuration structures used to initialize the kiosk programs.
// It includes global settings, the Arduino serial link, the HTTP server, sensor behavior,
// the USB receipt printer and the receipt content.
package model

import "time"

// Config represents the root structure loaded from configs/config.yml.
type Config struct {
	Global  GlobalConfig  `yaml:"global"`
	Serial  SerialConfig  `yaml:"serial"`
	Server  ServerConfig  `yaml:"server"`
	Sensors SensorsConfig `yaml:"sensors"`
	Printer PrinterConfig `yaml:"printer"`
	Receipt ReceiptConfig `yaml:"receipt"`
}

// GlobalConfig defines shared defaults across the programs.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// SerialConfig defines the Arduino serial link.
type SerialConfig struct {
	Device        string        `yaml:"device"`
	Baud          int           `yaml:"baud"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`   // max wait for a reply line
	ResetDelay    time.Duration `yaml:"reset_delay"`    // the board resets when the port opens
	ResponseDelay time.Duration `yaml:"response_delay"` // wait between command and read
}

// ServerConfig defines the sensor HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// SensorsConfig defines fetch/poll behavior.
type SensorsConfig struct {
	Testing   bool `yaml:"testing"`    // poll always answers the dummy value
	QueueSize int  `yaml:"queue_size"` // pending serial commands
}

// PrinterConfig defines the USB ESC/POS printer.
type PrinterConfig struct {
	VendorID    uint16        `yaml:"vendor_id"`
	ProductID   uint16        `yaml:"product_id"`
	Config      int           `yaml:"config"`
	Interface   int           `yaml:"interface"`
	OutEndpoint int           `yaml:"out_endpoint"`
	Timeout     time.Duration `yaml:"timeout"` // 0 waits forever
	PaperWidth  int           `yaml:"paper_width"`
}

// ReceiptConfig is the content printed by the receipt job.
type ReceiptConfig struct {
	Logo         string        `yaml:"logo"`
	Title        string        `yaml:"title"`
	Details      []string      `yaml:"details"`
	Prescription []string      `yaml:"prescription"`
	Instructions []string      `yaml:"instructions"`
	FollowUp     string        `yaml:"follow_up"`
	QRCaption    string        `yaml:"qr_caption"`
	QR           QRConfig      `yaml:"qr"`
	Barcode      BarcodeConfig `yaml:"barcode"`
}

// QRConfig defines the QR code block.
type QRConfig struct {
	Content string `yaml:"content"`
	Size    int    `yaml:"size"` // dots per module, 1-16
	EC      int    `yaml:"ec"`   // 0=L 1=M 2=Q 3=H
	Center  bool   `yaml:"center"`
}

// BarcodeConfig defines the barcode block.
type BarcodeConfig struct {
	Code   string `yaml:"code"`
	Type   string `yaml:"type"`
	Height int    `yaml:"height"`
	Width  int    `yaml:"width"`
}

// DefaultConfig returns the settings the kiosk runs with when a key is not configured.
func DefaultConfig() Config {
	return Config{
		Global: GlobalConfig{LogLevel: "info"},
		Serial: SerialConfig{
			Device:        "/dev/ttyACM0",
			Baud:          9600,
			ReadTimeout:   2 * time.Second,
			ResetDelay:    2 * time.Second,
			ResponseDelay: 5 * time.Second,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:5000",
			ShutdownTimeout: 2 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Sensors: SensorsConfig{QueueSize: 16},
		Printer: PrinterConfig{
			VendorID:    0x6868,
			ProductID:   0x0200,
			Config:      1,
			Interface:   0,
			OutEndpoint: 1,
			PaperWidth:  384,
		},
		Receipt: ReceiptConfig{
			Logo:  "logo3.png",
			Title: "--- Health Report ---",
			Details: []string{
				"Name: Saah Francis Mbah",
				"Age: 25",
				"Gender: Male",
				"Height: 162cm",
				"Weight: 63Kg",
			},
			Prescription: []string{
				"1. Paracetamol 500mg",
				"2. Ibuprofen 200mg",
				"3. Amoxicillin 250mg",
			},
			Instructions: []string{
				"1. Take Paracetamol 500mg every 6 hours as needed for pain.",
				"2. Take Ibuprofen 200mg every 8 hours for inflammation.",
				"3. Take Amoxicillin 250mg every 12 hours for 7 days.",
			},
			FollowUp:  "Follow up in 2 weeks or sooner if symptoms worsen.",
			QRCaption: "Scan the QR Code to access results",
			QR: QRConfig{
				Content: "https://healthport.com",
				Size:    8,
				EC:      1,
				Center:  true,
			},
			Barcode: BarcodeConfig{
				Code:   "123456789012",
				Type:   "EAN13",
				Height: 64,
				Width:  2,
			},
		},
	}
}
