package service

import (
	"bytes"
	"context"
	"fmt"
	"rentwheels/internal/domains/payment/model"
	"rentwheels/shared"
	"rentwheels/shared/constant"
	"rentwheels/shared/failure"
	"rentwheels/shared/timezone"

	"github.com/phpdave11/gofpdf"
	"github.com/rs/zerolog/log"
)

// Receipt renders a PDF receipt for a completed payment and returns the
// document bytes with a download file name.
func (s *serviceImpl) Receipt(ctx context.Context, id string) (doc []byte, fileName string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Receipt")
	defer scope.End()
	defer scope.TraceIfError(err)

	payment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return nil, "", fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return nil, "", failure.NotFound("payment not found") // nolint:wrapcheck
	}

	if payment.Status.Normalize() != model.StatusCompleted {
		return nil, "", failure.Conflict("receipts are only available for completed payments") // nolint:wrapcheck
	}

	doc, err = buildReceiptPDF(payment)
	if err != nil {
		log.Error().Err(err).Msg("failed to build receipt PDF")

		return nil, "", fmt.Errorf("failed to build receipt PDF: %w", err)
	}

	return doc, fmt.Sprintf("RECEIPT_%s.pdf", payment.ID), nil
}

func buildReceiptPDF(payment model.Payment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	paidAt := "-"
	if payment.PaidAt.Valid {
		paidAt = timezone.Format(payment.PaidAt.Time, constant.DateFormat)
	}

	receiptNumber := payment.ReceiptNumber.String
	if receiptNumber == "" {
		receiptNumber = "-"
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Receipt No  : %s", receiptNumber),
		fmt.Sprintf("Payment ID  : %s", payment.ID),
		fmt.Sprintf("Booking ID  : %s", payment.BookingID),
		fmt.Sprintf("Method      : %s", payment.Method),
		fmt.Sprintf("Paid At     : %s", paidAt),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Total: "+formatAmount(payment.Amount, payment.Currency))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This receipt confirms a settled vehicle rental payment.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// formatAmount renders a minor-unit amount as a currency string, e.g.
// 1500050 as "KES 15000.50".
func formatAmount(minor int64, currency string) string {
	return fmt.Sprintf("%s %d.%02d", currency, minor/constant.MinorUnitsPerUnit, minor%constant.MinorUnitsPerUnit)
}
