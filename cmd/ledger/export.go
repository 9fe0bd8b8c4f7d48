package main

import (
	"fmt"
	"time"

	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const (
	submissionsSheet = "Submissions"
	summarySheet     = "Summary"
)

var ledgerHeaders = []string{
	"ID", "Created", "Session", "User", "Endpoint", "Payment",
	"Items", "Subtotal", "Shipping", "Total", "Status", "Upstream Status", "Error",
}

func buildLedger(submissions []model.OrderSubmission) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), submissionsSheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(submissionsSheet, "A1", &ledgerHeaders); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	var succeeded, failed int
	var revenue int64
	for i, s := range submissions {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			s.ID, s.CreatedAt.UTC().Format(time.RFC3339), s.SessionID, s.UserID, string(s.Endpoint), s.PaymentMethod,
			s.ItemCount, s.SubTotal, s.Shipping, s.Total, string(s.Status), s.UpstreamStatus, s.ErrorMessage,
		}
		if err := f.SetSheetRow(submissionsSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write submission %d: %w", s.ID, err)
		}

		if s.Status == model.SubmissionSucceeded {
			succeeded++
			revenue += s.Total
		} else {
			failed++
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	summary := [][]interface{}{
		{"Attempts", len(submissions)},
		{"Succeeded", succeeded},
		{"Failed", failed},
		{"Succeeded total", revenue},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}
