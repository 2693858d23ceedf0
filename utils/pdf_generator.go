package utils

import (
	"bytes"
	"context"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"medicare/models"
)

type appointmentPDFData struct {
	Appointment *models.Appointment
	GeneratedAt string
}

// GenerateAppointmentPDF renders the confirmation template to PDF with
// headless Chrome. The appointment must carry expanded patient/doctor refs.
func GenerateAppointmentPDF(appointment *models.Appointment) ([]byte, error) {
	tmpl, err := template.ParseFiles("templates/appointment_template.html")
	if err != nil {
		return nil, err
	}

	data := appointmentPDFData{
		Appointment: appointment,
		GeneratedAt: time.Now().Format("02-Jan-2006 15:04"),
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return nil, err
	}

	finalHTML := `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
@page {
	size: A4;
	margin: 20px;
}
body {
	font-family: Arial, Helvetica, sans-serif;
	font-size: 12px;
	margin: 0;
	padding: 0;
}
.confirmation {
	page-break-inside: avoid;
	border: none;
}
</style>
</head>
<body><div class='confirmation'>` + body.String() + `</div></body></html>`

	tmpDir := os.TempDir()
	tmpHTML := filepath.Join(tmpDir, "appointment_"+time.Now().Format("20060102150405")+".html")
	if err := os.WriteFile(tmpHTML, []byte(finalHTML), 0644); err != nil {
		return nil, err
	}
	defer os.Remove(tmpHTML)

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuf []byte
	fileURL := "file://" + tmpHTML

	err = chromedp.Run(ctx,
		chromedp.Navigate(fileURL),
		chromedp.Sleep(1*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}
