package receipt

import (
	"VitalsKiosk/internal/escpos"
	"VitalsKiosk/internal/model"
)

// Script returns the print job for one receipt. logo may be nil to skip the bitmap.
func Script(cfg model.ReceiptConfig, logo *escpos.Raster, paperWidth int) []escpos.Command {
	cmds := []escpos.Command{escpos.Init{}}
	if logo != nil {
		cmds = append(cmds, escpos.Image{Raster: logo}, escpos.Feed(1))
	}

	head := escpos.Lines{cfg.Title, "", "Details:"}
	head = append(head, cfg.Details...)
	head = append(head, "")

	cmds = append(cmds,
		head,
		escpos.Style{Align: escpos.AlignLeft, Font: escpos.FontB},
		escpos.Text("Prescription\n"),
		escpos.Style{Align: escpos.AlignLeft, Font: escpos.FontA},
	)

	body := append(escpos.Lines{}, cfg.Prescription...)
	body = append(body, "", "Instructions:")
	body = append(body, cfg.Instructions...)
	body = append(body, "", cfg.FollowUp, "", cfg.QRCaption)

	cmds = append(cmds,
		body,
		escpos.Style{Align: escpos.AlignCenter, Font: escpos.FontA},
		escpos.QR{
			Content:    cfg.QR.Content,
			Size:       cfg.QR.Size,
			EC:         cfg.QR.EC,
			Center:     cfg.QR.Center,
			PaperWidth: paperWidth,
		},
		escpos.Feed(1),
		escpos.Barcode{
			Code:     cfg.Barcode.Code,
			Type:     cfg.Barcode.Type,
			Height:   cfg.Barcode.Height,
			Width:    cfg.Barcode.Width,
			Position: escpos.HRIBelow,
			Font:     escpos.FontA,
			Center:   true,
		},
		escpos.Feed(1),
		escpos.Cut{},
	)
	return cmds
}

// Build loads the logo and encodes the whole receipt.
func Build(cfg model.ReceiptConfig, paperWidth int) ([]byte, error) {
	logo, err := LoadLogo(cfg.Logo, paperWidth)
	if err != nil {
		return nil, err
	}
	return escpos.Encode(Script(cfg, logo, paperWidth)...)
}
